package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/imgmeta/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// Every section becomes a two-column table and findings are summarised with
// an alert and a mermaid pie chart.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a single report.
func (w *MarkdownWriter) Write(report *model.ImageReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeReport(md, report, "# ")
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteBatch outputs all reports in one document with a summary table.
func (w *MarkdownWriter) WriteBatch(reports []*model.ImageReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Image Metadata Report")
	md.PlainText("")

	rows := make([][]string, len(reports))
	for i, r := range reports {
		status := PrivacySummary(r)
		if r.Failed() {
			status = "❌ " + errorText(r)
		}
		rows[i] = []string{"`" + r.Path + "`", status}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Privacy"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range reports {
		w.writeReport(md, r, "## ")
	}
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeReport writes one report. level is the heading prefix of the report
// title; sections are one level deeper.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.ImageReport, level string) {
	sub := "#" + level

	md.PlainText(level + report.FileName)
	md.PlainText("")

	if report.Failed() {
		md.Cautionf("%s", errorText(report))
		md.PlainText("")
		return
	}

	for _, section := range report.Sections {
		md.PlainText(sub + section.Name)
		md.PlainText("")
		if len(section.Fields) == 0 {
			md.PlainText(section.Note)
			md.PlainText("")
			continue
		}
		rows := make([][]string, len(section.Fields))
		for i, f := range section.Fields {
			rows[i] = []string{f.Key, escapeCell(f.Value)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Field", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(report.Warnings) > 0 {
		md.PlainText(sub + "Warnings")
		md.PlainText("")
		md.BulletList(report.Warnings...)
		md.PlainText("")
	}

	w.writePrivacy(md, report, sub)
}

// writePrivacy writes the alert, pie chart and findings table.
func (w *MarkdownWriter) writePrivacy(md *markdown.Markdown, report *model.ImageReport, level string) {
	md.PlainText(level + "Privacy Summary")
	md.PlainText("")
	w.writeAlert(md, report)

	if len(report.Findings) == 0 {
		return
	}
	w.writePieChart(md, report)

	rows := make([][]string, 0, len(report.Findings))
	for _, severity := range model.SeverityLevels {
		for _, f := range report.FindingsBySeverity(severity) {
			rows = append(rows, []string{
				f.SeverityText,
				f.Title,
				"`" + f.Tag + "`",
				escapeCell(truncateString(f.Value, 60)),
			})
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Finding", "Tag", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range report.Findings {
		if f.Recommendation != "" {
			md.Details(f.Title, f.Recommendation)
		}
	}
	md.PlainText("")
}

// writeAlert writes an alert for the most severe finding.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ImageReport) {
	highest, ok := report.HighestSeverity()
	counts := report.CountBySeverity()
	switch {
	case !ok:
		md.Tip("No privacy-sensitive metadata found.")
	case highest == model.SeverityCritical:
		md.Cautionf("This image discloses a location. %d critical finding(s).", counts[model.SeverityCritical])
	case highest == model.SeverityHigh:
		md.Warningf("This image identifies a device or person. %d high severity finding(s).", counts[model.SeverityHigh])
	case highest == model.SeverityMedium:
		md.Importantf("This image narrows down the device used. %d finding(s).", counts[model.SeverityMedium])
	default:
		md.Note("Only low severity metadata found.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of findings per severity.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ImageReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Severity"),
		piechart.WithShowData(true),
	)
	counts := report.CountBySeverity()
	for _, severity := range model.SeverityLevels {
		if n := counts[severity]; n > 0 {
			chart.LabelAndIntValue(severity.String(), uint64(n))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [imgmeta](https://github.com/nao1215/imgmeta)*")
}

// escapeCell makes a value safe inside a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
