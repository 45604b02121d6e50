package filter

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/nao1215/imgmeta/internal/model"
)

// ErrNotBoolean is returned when an expression does not yield a boolean.
var ErrNotBoolean = errors.New("filter expression did not evaluate to a boolean")

// groupPriority decides which group a bare tag name resolves to.
var groupPriority = []string{model.GroupImage, model.GroupEXIF, model.GroupGPS, model.GroupInterop, model.GroupThumbnail}

// Filter is a compiled filter expression.
type Filter struct {
	expr *govaluate.EvaluableExpression
	text string
}

// Compile parses expr.
func Compile(expr string) (*Filter, error) {
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &Filter{expr: e, text: expr}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.text
}

// Match evaluates the filter against a report.
func (f *Filter) Match(report *model.ImageReport) (bool, error) {
	result, err := f.expr.Eval(reportParameters{report: report})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q on %s: %w", f.text, report.Path, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %v", ErrNotBoolean, f.text, result)
	}
	return matched, nil
}

// reportParameters implements govaluate.Parameters over a report.
type reportParameters struct {
	report *model.ImageReport
}

// Get resolves a parameter name.
func (p reportParameters) Get(name string) (interface{}, error) {
	r := p.report
	switch name {
	case "Format":
		if r.Properties != nil {
			return r.Properties.Format, nil
		}
		return "", nil
	case "Width":
		if r.Properties != nil {
			return float64(r.Properties.Width), nil
		}
		return 0.0, nil
	case "Height":
		if r.Properties != nil {
			return float64(r.Properties.Height), nil
		}
		return 0.0, nil
	case "FileSize":
		return float64(r.FileSize), nil
	case "FileName":
		return r.FileName, nil
	case "HasEXIF":
		return r.HasEXIF(), nil
	case "HasGPS":
		return r.Tags.HasGroup(model.GroupGPS), nil
	}

	if tag, ok := r.Tags.Get(name); ok {
		return tagValue(tag), nil
	}
	for _, group := range groupPriority {
		if tag, ok := r.Tags.Get(group + " " + name); ok {
			return tagValue(tag), nil
		}
	}
	return nil, nil
}

// tagValue converts a tag to the value types govaluate compares:
// single numbers become float64, everything else its printed form.
func tagValue(tag *model.Tag) interface{} {
	if tag.Len() == 1 {
		if f, ok := tag.Float(0); ok {
			return f
		}
	}
	return tag.String()
}
