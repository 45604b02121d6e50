package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/imgmeta/internal/config"
	"github.com/nao1215/imgmeta/internal/database"
	"github.com/nao1215/imgmeta/internal/model"
	"github.com/nao1215/imgmeta/internal/report"
)

// Constants for risk direction and summary messages.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
	noFindingsMessage      = "No findings"
)

// historyTimeFormat is the timestamp layout of history listings.
const historyTimeFormat = "2006-01-02 15:04:05"

// errNoHistory is returned when no run has been recorded yet.
var errNoHistory = errors.New("no extraction history recorded")

// NewHistoryCmd creates the history command.
// This command reads the extraction history recorded by inspect.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Show and compare recorded extractions",
		Long: `History shows the extractions recorded by 'imgmeta inspect --history'.

For a file it lists every recorded extraction, newest first. With --diff it
compares the latest extraction with the previous one (or the one given by
--with-id) and shows:
- Metadata fields that were added, removed or changed
- New privacy findings and findings that are gone
- Whether the overall privacy risk went up or down

Examples:
  # List recorded extractions of a file
  imgmeta history photo.jpg

  # Compare the two latest extractions
  imgmeta history --diff photo.jpg

  # Compare the latest extraction with a specific one
  imgmeta history --diff --with-id 12 photo.jpg

  # Print a stored report
  imgmeta history --show --with-id 12 photo.jpg

  # Find every recorded copy of the same image content
  imgmeta history --copies photo.jpg

  # List all recorded files
  imgmeta history --list-files`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list-files", "L", false,
		"List every file with recorded extractions")
	cmd.Flags().Bool("copies", false,
		"List recorded files with the same content as the latest extraction")
	cmd.Flags().String("run", "",
		"List the extractions recorded by one inspect run")

	// Report selection flags
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest extraction with an earlier one")
	cmd.Flags().BoolP("show", "s", false,
		"Print a stored report")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Use the extraction with this ID (see the listing for IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the comparison in Markdown format")

	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	listFiles bool
	copies    bool
	runID     string
	diff      bool
	show      bool
	withID    int64
	json      bool
	markdown  bool
	dbDir     string
}

// parseHistoryFlags reads the history flags.
func parseHistoryFlags(cmd *cobra.Command) (historyOptions, error) {
	var opts historyOptions
	var err error
	flags := cmd.Flags()

	if opts.listFiles, err = flags.GetBool("list-files"); err != nil {
		return opts, err
	}
	if opts.copies, err = flags.GetBool("copies"); err != nil {
		return opts, err
	}
	if opts.runID, err = flags.GetString("run"); err != nil {
		return opts, err
	}
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return opts, err
	}
	if opts.show, err = flags.GetBool("show"); err != nil {
		return opts, err
	}
	if opts.withID, err = flags.GetInt64("with-id"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.dbDir == "" {
		opts.dbDir = config.XDGDataDir()
	}
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if !opts.listFiles && opts.runID == "" && len(args) == 0 {
		return errors.New("a file path is required (use --list-files to see recorded files)")
	}
	if opts.diff && opts.show {
		return errors.New("--diff and --show cannot be used together")
	}
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}

	// Reading history never creates the database.
	dbOpts := database.DefaultOptions()
	dbOpts.CreateIfNotExists = false
	db, err := database.Open(opts.dbDir, dbOpts)
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return fmt.Errorf("%w in %s (record runs with 'imgmeta inspect --history <file>')", errNoHistory, opts.dbDir)
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case opts.listFiles:
		return listRecordedFiles(ctx, db, out)
	case opts.runID != "":
		return listRun(ctx, db, out, opts.runID, opts.json)
	}

	path := args[0]
	switch {
	case opts.copies:
		return listCopies(ctx, db, out, path, opts.json)
	case opts.show:
		return showStoredReport(ctx, db, out, path, opts)
	case opts.diff:
		return runComparison(ctx, db, out, path, opts)
	default:
		return listHistory(ctx, db, out, path, opts.json)
	}
}

// listRecordedFiles lists every file with at least one recorded extraction.
func listRecordedFiles(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	files, err := db.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No recorded files found in the database.")
		fmt.Fprintln(out, "\nUse 'imgmeta inspect <file>' to inspect and record a file.")
		return nil
	}

	fmt.Fprintf(out, "Recorded files (%d):\n\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  • %s\n", f)
	}
	fmt.Fprintln(out, "\nUse 'imgmeta history <file>' to see the extractions of a file.")
	return nil
}

// listHistory lists every recorded extraction of path.
func listHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, path string, jsonOutput bool) error {
	entries, err := db.GetHistoryWithMetadata(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, nonNil(entries))
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No extraction history found for %s\n", path)
		fmt.Fprintln(out, "\nUse 'imgmeta inspect' to inspect this file.")
		return nil
	}

	fmt.Fprintf(out, "Extraction history for %s (%d extractions):\n\n", entries[0].Path, len(entries))
	writeMetadataTable(out, entries, false)

	fmt.Fprintln(out, "\nUse 'imgmeta history --diff <file>' to compare the latest two extractions.")
	fmt.Fprintln(out, "Use 'imgmeta history --diff --with-id <id> <file>' to compare with a specific extraction.")
	return nil
}

// listRun lists the extractions recorded by one inspect run.
func listRun(ctx context.Context, db *database.HistoryDB, out io.Writer, runID string, jsonOutput bool) error {
	entries, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, nonNil(entries))
	}
	if len(entries) == 0 {
		return fmt.Errorf("no extractions recorded for run %s", runID)
	}

	fmt.Fprintf(out, "Run %s (%d extractions):\n\n", runID, len(entries))
	writeMetadataTable(out, entries, true)
	return nil
}

// listCopies lists every recorded extraction whose content hash matches the
// latest extraction of path.
func listCopies(ctx context.Context, db *database.HistoryDB, out io.Writer, path string, jsonOutput bool) error {
	latest, err := db.GetLatestReport(ctx, path)
	if err != nil {
		return err
	}
	if latest == nil {
		return fmt.Errorf("no extraction history found for %s", path)
	}

	entries, err := db.FindByHash(ctx, latest.Hash)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, nonNil(entries))
	}

	fmt.Fprintf(out, "Extractions with content %s (%d):\n\n", shortHash(latest.Hash), len(entries))
	writeMetadataTable(out, entries, true)
	return nil
}

// writeMetadataTable prints one line per extraction.
func writeMetadataTable(out io.Writer, entries []database.Metadata, withPath bool) {
	fmt.Fprintf(out, "  %-6s  %-19s  %-3s  %-22s", "ID", "Date", "GPS", "Risk Summary")
	if withPath {
		fmt.Fprint(out, "  Path")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range entries {
		gps := "no"
		if meta.HasGPS {
			gps = "yes"
		}
		fmt.Fprintf(out, "  %-6d  %-19s  %-3s  %-22s",
			meta.ID,
			meta.Timestamp.Local().Format(historyTimeFormat),
			gps,
			formatRiskSummary(meta.RiskSummary),
		)
		if withPath {
			fmt.Fprintf(out, "  %s", meta.Path)
		}
		fmt.Fprintln(out)
	}
}

// showStoredReport prints a stored report with the text or JSON writer.
func showStoredReport(ctx context.Context, db *database.HistoryDB, out io.Writer, path string, opts historyOptions) error {
	var stored *model.ImageReport
	var err error
	if opts.withID > 0 {
		stored, err = reportByID(ctx, db, path, opts.withID)
	} else {
		stored, err = db.GetLatestReport(ctx, path)
		if err == nil && stored == nil {
			err = fmt.Errorf("no extraction history found for %s", path)
		}
	}
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.Write(stored)
	return err
}

// reportByID loads extraction id and checks that it belongs to path.
func reportByID(ctx context.Context, db *database.HistoryDB, path string, id int64) (*model.ImageReport, error) {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get extraction with ID %d: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("extraction with ID %d not found", id)
	}

	// The stored report keeps the path as typed, so ownership is checked
	// against the normalised path column instead.
	entries, err := db.GetHistoryWithMetadata(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	for _, e := range entries {
		if e.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("extraction ID %d belongs to %s, not %s", id, r.Path, path)
}

// formatRiskSummary formats the risk summary map into a human-readable string.
func formatRiskSummary(summary map[string]int) string {
	if summary == nil {
		return model.NotAvailable
	}

	var parts []string
	for _, s := range model.SeverityLevels {
		name := s.String()
		if v := summary[strings.ToLower(name)]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", name[:1], v))
		}
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison compares the latest extraction of path with an earlier one.
func runComparison(ctx context.Context, db *database.HistoryDB, out io.Writer, path string, opts historyOptions) error {
	reports, err := db.GetHistory(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no extraction history found for %s", path)
	}
	if len(reports) < 2 && opts.withID == 0 {
		return fmt.Errorf("at least 2 extractions are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	current := reports[0]
	var previous *model.ImageReport
	if opts.withID > 0 {
		if previous, err = reportByID(ctx, db, path, opts.withID); err != nil {
			return err
		}
	} else {
		previous = reports[1]
	}

	comparison := compareReports(previous, current)

	switch {
	case opts.json:
		return writeJSON(out, comparison)
	case opts.markdown:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// ComparisonResult holds the result of comparing two extractions of a file.
type ComparisonResult struct {
	// Path is the compared file.
	Path string `json:"path"`

	// Previous contains metadata about the earlier extraction.
	Previous ExtractionSummary `json:"previous"`

	// Current contains metadata about the latest extraction.
	Current ExtractionSummary `json:"current"`

	// ContentChanged is true when the file hashes differ.
	ContentChanged bool `json:"content_changed"`

	// Changes lists the report fields whose printed value differs.
	Changes []FieldChange `json:"changes,omitempty"`

	// NewFindings contains findings that are new in the current extraction.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings that were in the previous
	// extraction but not in the current one.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings present in both.
	UnchangedCount int `json:"unchanged_count"`

	// RiskChange describes the overall change in risk level.
	RiskChange RiskChange `json:"risk_change"`
}

// ExtractionSummary contains metadata about one extraction for display.
type ExtractionSummary struct {
	// DateExtracted is when the file was inspected.
	DateExtracted time.Time `json:"date_extracted"`

	// Hash is the content hash at that time.
	Hash string `json:"hash"`

	// TotalFindings is the total number of findings.
	TotalFindings int `json:"total_findings"`

	// Finding counts per severity.
	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	InfoCount     int `json:"info_count"`
}

// FieldChange is one report field whose value differs between extractions.
// An empty Previous means the field was added, an empty Current that it
// was removed.
type FieldChange struct {
	Section  string `json:"section"`
	Field    string `json:"field"`
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current,omitempty"`
}

// RiskChange describes the change in risk level between extractions.
type RiskChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	CriticalDelta int `json:"critical_delta"`
	HighDelta     int `json:"high_delta"`
	MediumDelta   int `json:"medium_delta"`
	LowDelta      int `json:"low_delta"`
	InfoDelta     int `json:"info_delta"`
}

// noteField is the field name used for a section note in FieldChange.
const noteField = "(note)"

// summarize builds the ExtractionSummary of r.
func summarize(r *model.ImageReport) ExtractionSummary {
	counts := r.CountBySeverity()
	return ExtractionSummary{
		DateExtracted: r.DateExtracted,
		Hash:          r.Hash,
		TotalFindings: len(r.Findings),
		CriticalCount: counts[model.SeverityCritical],
		HighCount:     counts[model.SeverityHigh],
		MediumCount:   counts[model.SeverityMedium],
		LowCount:      counts[model.SeverityLow],
		InfoCount:     counts[model.SeverityInfo],
	}
}

// compareReports compares two extractions and generates a comparison result.
func compareReports(previous, current *model.ImageReport) *ComparisonResult {
	result := &ComparisonResult{
		Path:           current.Path,
		Previous:       summarize(previous),
		Current:        summarize(current),
		ContentChanged: previous.Hash != current.Hash,
		Changes:        compareSections(previous.Sections, current.Sections),
	}

	previousFindings := make(map[string]model.Finding, len(previous.Findings))
	for _, f := range previous.Findings {
		previousFindings[findingKey(f)] = f
	}
	currentFindings := make(map[string]bool, len(current.Findings))
	for _, f := range current.Findings {
		key := findingKey(f)
		currentFindings[key] = true
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, f)
		}
	}
	for _, f := range previous.Findings {
		if currentFindings[findingKey(f)] {
			result.UnchangedCount++
		} else {
			result.ResolvedFindings = append(result.ResolvedFindings, f)
		}
	}

	result.RiskChange = calculateRiskChange(result.Previous, result.Current)
	return result
}

// compareSections lists the fields whose values differ, in the order of the
// current report followed by anything only the previous report had.
func compareSections(previous, current []model.Section) []FieldChange {
	type fieldKey struct{ section, field string }

	values := func(sections []model.Section) (map[fieldKey]string, []fieldKey) {
		m := make(map[fieldKey]string)
		var order []fieldKey
		for _, s := range sections {
			if s.Note != "" {
				k := fieldKey{s.Name, noteField}
				m[k] = s.Note
				order = append(order, k)
			}
			for _, f := range s.Fields {
				k := fieldKey{s.Name, f.Key}
				if _, dup := m[k]; dup {
					continue
				}
				m[k] = f.Value
				order = append(order, k)
			}
		}
		return m, order
	}

	prev, prevOrder := values(previous)
	cur, curOrder := values(current)

	var changes []FieldChange
	for _, k := range curOrder {
		if p, ok := prev[k]; !ok || p != cur[k] {
			changes = append(changes, FieldChange{Section: k.section, Field: k.field, Previous: p, Current: cur[k]})
		}
	}
	for _, k := range prevOrder {
		if _, ok := cur[k]; !ok {
			changes = append(changes, FieldChange{Section: k.section, Field: k.field, Previous: prev[k]})
		}
	}
	return changes
}

// findingKey generates a unique key for a finding for comparison purposes.
func findingKey(f model.Finding) string {
	return f.Type + "|" + f.Tag + "|" + f.Value
}

// calculateRiskChange calculates the change in risk between two extractions.
func calculateRiskChange(previous, current ExtractionSummary) RiskChange {
	change := RiskChange{
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		HighDelta:     current.HighCount - previous.HighCount,
		MediumDelta:   current.MediumCount - previous.MediumCount,
		LowDelta:      current.LowCount - previous.LowCount,
		InfoDelta:     current.InfoCount - previous.InfoCount,
	}

	// Determine overall direction based on weighted score
	previousScore := riskScore(previous)
	currentScore := riskScore(current)

	switch {
	case currentScore < previousScore:
		change.Direction = riskDirectionImproved
	case currentScore > previousScore:
		change.Direction = riskDirectionWorsened
	default:
		change.Direction = riskDirectionUnchanged
	}
	return change
}

func riskScore(s ExtractionSummary) int {
	return s.CriticalCount*100 + s.HighCount*50 + s.MediumCount*10 + s.LowCount*5 + s.InfoCount
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// nonNil makes empty listings encode as [] instead of null.
func nonNil(entries []database.Metadata) []database.Metadata {
	if entries == nil {
		return []database.Metadata{}
	}
	return entries
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Extraction Comparison: %s\n", result.Path)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nRisk Status: %s\n", formatRiskDirection(result.RiskChange.Direction))

	fmt.Fprintf(out, "\nPrevious extraction: %s  %s\n",
		result.Previous.DateExtracted.Local().Format(historyTimeFormat), shortHash(result.Previous.Hash))
	fmt.Fprintf(out, "Current extraction:  %s  %s\n",
		result.Current.DateExtracted.Local().Format(historyTimeFormat), shortHash(result.Current.Hash))
	if result.ContentChanged {
		fmt.Fprintln(out, "File content changed between extractions.")
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(out, "\nChanged Fields (%d):\n", len(result.Changes))
		for _, c := range result.Changes {
			fmt.Fprintf(out, "  [%s] %s: %s -> %s\n", c.Section, c.Field, orNone(c.Previous), orNone(c.Current))
		}
	} else {
		fmt.Fprintln(out, "\nNo field changes.")
	}

	fmt.Fprintln(out, "\nFindings Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	for _, row := range severityRows(result) {
		fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", row.name, row.previous, row.current, formatDelta(row.delta))
	}
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.Previous.TotalFindings, result.Current.TotalFindings,
		formatDelta(result.Current.TotalFindings-result.Previous.TotalFindings))

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "  [+] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "  [-] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}
	return nil
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "# Extraction Comparison: %s\n\n", result.Path)

	fmt.Fprintln(out, "## Summary")
	fmt.Fprintf(out, "\n**Risk Status:** %s\n\n", formatRiskDirection(result.RiskChange.Direction))

	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n",
		result.Previous.DateExtracted.Local().Format("2006-01-02 15:04"),
		result.Current.DateExtracted.Local().Format("2006-01-02 15:04"))
	for _, row := range severityRows(result) {
		fmt.Fprintf(out, "| %s | %d | %d | %s |\n", row.name, row.previous, row.current, formatDelta(row.delta))
	}
	fmt.Fprintf(out, "| **Total** | **%d** | **%d** | **%s** |\n",
		result.Previous.TotalFindings,
		result.Current.TotalFindings,
		formatDelta(result.Current.TotalFindings-result.Previous.TotalFindings))

	if len(result.Changes) > 0 {
		fmt.Fprintf(out, "\n## Changed Fields (%d)\n\n", len(result.Changes))
		fmt.Fprintln(out, "| Section | Field | Previous | Current |")
		fmt.Fprintln(out, "|---------|-------|----------|---------|")
		for _, c := range result.Changes {
			fmt.Fprintf(out, "| %s | %s | %s | %s |\n", c.Section, c.Field,
				escapePipe(orNone(c.Previous)), escapePipe(orNone(c.Current)))
		}
	}

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "- **[%s]** %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "- ~~**[%s]** %s: %s~~\n", f.SeverityText, f.Title, f.Value)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}
	return nil
}

// severityRow is one line of the findings summary table.
type severityRow struct {
	name              string
	previous, current int
	delta             int
}

func severityRows(result *ComparisonResult) []severityRow {
	p, c, d := result.Previous, result.Current, result.RiskChange
	return []severityRow{
		{"Critical", p.CriticalCount, c.CriticalCount, d.CriticalDelta},
		{"High", p.HighCount, c.HighCount, d.HighDelta},
		{"Medium", p.MediumCount, c.MediumCount, d.MediumDelta},
		{"Low", p.LowCount, c.LowCount, d.LowDelta},
		{"Info", p.InfoCount, c.InfoCount, d.InfoDelta},
	}
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (risk decreased)"
	case riskDirectionWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func escapePipe(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	if h == "" {
		return model.NotAvailable
	}
	return h
}
