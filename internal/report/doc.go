// Package report renders image reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text grouped by category, for the terminal
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a findings pie chart
//
// Design decision: Report data lives in the model package and rendering
// lives here, so a new output format never touches the data structures.
//
// Writers implement the Writer interface and can be combined with
// MultiWriter to write several formats at once.
package report
