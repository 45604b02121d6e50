package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/imgmeta/internal/model"
)

// JSONWriter outputs reports in JSON format.
//
// Design decision: encoding/json is used as in the rest of the project;
// the report types carry json tags and need no custom marshalling.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as a JSON object.
func (w *JSONWriter) Write(report *model.ImageReport) (int, error) {
	return w.writeJSON(report)
}

// WriteBatch outputs the reports as a JSON array.
func (w *JSONWriter) WriteBatch(reports []*model.ImageReport) (int, error) {
	if reports == nil {
		reports = []*model.ImageReport{}
	}
	return w.writeJSON(reports)
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a report with output metadata.
type JSONReport struct {
	// Version is the imgmeta version that generated this report.
	Version string `json:"version"`

	// Privacy is the one-line privacy summary.
	Privacy string `json:"privacy"`

	// Report is the full report.
	Report *model.ImageReport `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.ImageReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Privacy: PrivacySummary(report),
		Report:  report,
	}
}

// FullJSONWriter outputs reports wrapped with version and privacy summary.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for wrapped reports.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the wrapped report.
func (w *FullJSONWriter) Write(report *model.ImageReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// WriteBatch outputs an array of wrapped reports.
func (w *FullJSONWriter) WriteBatch(reports []*model.ImageReport) (int, error) {
	wrapped := make([]*JSONReport, len(reports))
	for i, r := range reports {
		wrapped[i] = NewJSONReport(r, w.version)
	}
	return w.writeJSON(wrapped)
}
