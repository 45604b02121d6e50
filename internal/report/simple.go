package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/imgmeta/internal/model"
)

// SimpleWriter outputs plain text reports.
//
// Each section is printed as "\n<Section>:" followed by one indented
// "key: value" line per field, or the section note on its own line. A
// privacy summary of the findings closes every report.
type SimpleWriter struct {
	baseWriter

	// verbose adds the recommendation below each finding.
	verbose bool

	// showTags appends the raw tag table.
	showTags bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables finding recommendations.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithRawTags appends every decoded tag after the sections.
func WithRawTags(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showTags = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs a single report.
func (w *SimpleWriter) Write(report *model.ImageReport) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs each report under a "==> path <==" header.
func (w *SimpleWriter) WriteBatch(reports []*model.ImageReport) (int, error) {
	var sb strings.Builder
	for i, report := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "==> %s <==\n", report.Path)
		w.writeReport(&sb, report)
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.ImageReport) {
	if report.Failed() {
		fmt.Fprintf(sb, "Error: %s\n", errorText(report))
		return
	}

	for _, section := range report.Sections {
		fmt.Fprintf(sb, "\n%s:\n", section.Name)
		if len(section.Fields) == 0 {
			fmt.Fprintf(sb, "  %s\n", section.Note)
			continue
		}
		for _, f := range section.Fields {
			fmt.Fprintf(sb, "  %s: %s\n", f.Key, f.Value)
		}
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, msg := range report.Warnings {
			fmt.Fprintf(sb, "  - %s\n", msg)
		}
	}

	if w.showTags && len(report.TagList) > 0 {
		sb.WriteString("\nRaw Tags:\n")
		for _, tag := range report.TagList {
			fmt.Fprintf(sb, "  %s: %s\n", tag.Key(), tag.String())
		}
	}

	w.writePrivacy(sb, report)
}

func (w *SimpleWriter) writePrivacy(sb *strings.Builder, report *model.ImageReport) {
	fmt.Fprintf(sb, "\nPrivacy Summary: %s\n", PrivacySummary(report))
	for _, severity := range model.SeverityLevels {
		for _, f := range report.FindingsBySeverity(severity) {
			fmt.Fprintf(sb, "  [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
			if w.verbose && f.Recommendation != "" {
				fmt.Fprintf(sb, "      %s\n", f.Recommendation)
			}
		}
	}
}

func errorText(report *model.ImageReport) string {
	if report.ErrorMessage != "" {
		return report.ErrorMessage
	}
	return report.Error.Error()
}
