package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/imgmeta/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a single report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ImageReport) (int, error)

	// WriteBatch outputs several reports as one document.
	WriteBatch(reports []*model.ImageReport) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
//
// Design decision: io.MultiWriter does not fit because our Writer writes
// reports, not bytes, and each destination may use a different format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(report *model.ImageReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the reports to all configured Writers.
func (m *MultiWriter) WriteBatch(reports []*model.ImageReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// PrivacySummary returns a one-line summary of the report's findings, such
// as "1 critical, 2 high" or "no privacy-sensitive metadata".
func PrivacySummary(report *model.ImageReport) string {
	counts := report.CountBySeverity()
	var parts []string
	for _, s := range model.SeverityLevels {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], strings.ToLower(s.String())))
		}
	}
	if len(parts) == 0 {
		return "no privacy-sensitive metadata"
	}
	return strings.Join(parts, ", ")
}
