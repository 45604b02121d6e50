package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/imgmeta/internal/config"
	"github.com/nao1215/imgmeta/internal/database"
	"github.com/nao1215/imgmeta/internal/model"
	"github.com/nao1215/imgmeta/internal/testimage"
)

// TestNewHistoryCmd tests the history command flags.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	if cmd.Use != "history [file]" {
		t.Errorf("expected use 'history [file]', got %q", cmd.Use)
	}

	testCases := []struct {
		name      string
		shorthand string
	}{
		{name: "list-files", shorthand: "L"},
		{name: "diff", shorthand: "d"},
		{name: "show", shorthand: "s"},
		{name: "with-id", shorthand: "i"},
		{name: "json", shorthand: "j"},
		{name: "markdown", shorthand: "m"},
		{name: "copies"},
		{name: "run"},
		{name: "db-dir"},
	}
	for _, tc := range testCases {
		flag := cmd.Flags().Lookup(tc.name)
		if flag == nil {
			t.Errorf("expected %s flag", tc.name)
			continue
		}
		if flag.Shorthand != tc.shorthand {
			t.Errorf("%s: expected shorthand %q, got %q", tc.name, tc.shorthand, flag.Shorthand)
		}
	}
}

// TestHistoryArgumentValidation tests errors raised before the database
// is opened.
func TestHistoryArgumentValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "file required", args: []string{"history"}, want: "a file path is required"},
		{name: "diff and show", args: []string{"history", "--diff", "--show", "a.jpg"}, want: "cannot be used together"},
		{name: "json and markdown", args: []string{"history", "--json", "--markdown", "a.jpg"}, want: config.ErrConflictingReportFormats.Error()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			args := append(tc.args, "--db-dir", t.TempDir())
			_, _, err := executeCmd(t, args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

// inspectInto inspects paths and records them in dbDir.
func inspectInto(t *testing.T, dbDir string, paths ...string) {
	t.Helper()
	args := append([]string{"inspect", "--history", "--db-dir", dbDir}, paths...)
	if _, _, err := executeCmd(t, args...); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
}

// historyFixture records two extractions of the same path: first with the
// full sample EXIF, then after the file was replaced by a camera-only one.
func historyFixture(t *testing.T) (dbDir, path string) {
	t.Helper()
	dbDir = t.TempDir()
	path = samplePhoto(t, "photo.jpg")
	inspectInto(t, dbDir, path)

	data := testimage.JPEG(testimage.JPEGOptions{EXIF: testimage.MinimalEXIF()})
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to rewrite %s: %v", path, err)
	}
	inspectInto(t, dbDir, path)
	return dbDir, path
}

// TestHistoryCommand tests history listing, diff and show end to end.
func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	dbDir, path := historyFixture(t)

	t.Run("lists extractions", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Extraction history for "+path+" (2 extractions)") {
			t.Errorf("unexpected listing:\n%s", stdout)
		}
		if !strings.Contains(stdout, "C:1") || !strings.Contains(stdout, "yes") {
			t.Errorf("expected the GPS extraction in the listing:\n%s", stdout)
		}
	})

	t.Run("lists extractions as json", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--json", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var entries []database.Metadata
		if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(entries) != 2 || entries[0].HasGPS || !entries[1].HasGPS {
			t.Errorf("unexpected entries %+v", entries)
		}
	})

	t.Run("diff text", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--diff", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Extraction Comparison: " + path,
			"Risk Status: IMPROVED (risk decreased)",
			"File content changed between extractions.",
			"[Camera Information] Make: " + testimage.SampleMake + " -> NIKON CORPORATION",
			"Resolved Findings (",
			"[-] [CRITICAL] GPS coordinates",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("diff missing %q:\n%s", want, stdout)
			}
		}
	})

	t.Run("diff json", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--diff", "-j", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var result ComparisonResult
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !result.ContentChanged || result.RiskChange.Direction != riskDirectionImproved {
			t.Errorf("unexpected result %+v", result)
		}
		if result.RiskChange.CriticalDelta != -1 {
			t.Errorf("CriticalDelta = %d, expected -1", result.RiskChange.CriticalDelta)
		}
	})

	t.Run("diff markdown", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--diff", "-m", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "# Extraction Comparison: "+path) || !strings.Contains(stdout, "## Changed Fields") {
			t.Errorf("unexpected markdown:\n%s", stdout)
		}
	})

	t.Run("show latest", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--show", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "  Make: NIKON CORPORATION\n") {
			t.Errorf("expected the latest report:\n%s", stdout)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--show", "--with-id", "999", path)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("list files", func(t *testing.T) {
		stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--list-files")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Recorded files (1):") || !strings.Contains(stdout, path) {
			t.Errorf("unexpected listing:\n%s", stdout)
		}
	})
}

// TestHistoryDiffWithID tests comparing against a chosen extraction.
func TestHistoryDiffWithID(t *testing.T) {
	t.Parallel()

	dbDir, path := historyFixture(t)

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	entries, err := db.GetHistoryWithMetadata(t.Context(), path)
	db.Close()
	if err != nil || len(entries) != 2 {
		t.Fatalf("GetHistoryWithMetadata() = %v, %v", entries, err)
	}
	oldest := entries[1].ID

	stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--diff", "--with-id", itoa(oldest), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Risk Status: IMPROVED") {
		t.Errorf("unexpected diff:\n%s", stdout)
	}

	other := minimalPhoto(t, "other.jpg")
	_, _, err = executeCmd(t, "history", "--db-dir", dbDir, "--diff", "--with-id", itoa(oldest), other)
	if err == nil {
		t.Error("expected error for an ID of another file")
	}
}

// TestHistoryDiffNeedsTwoExtractions tests the single extraction case.
func TestHistoryDiffNeedsTwoExtractions(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	path := samplePhoto(t, "photo.jpg")
	inspectInto(t, dbDir, path)

	_, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--diff", path)
	if err == nil || !strings.Contains(err.Error(), "at least 2 extractions") {
		t.Errorf("expected error, got %v", err)
	}

	_, _, err = executeCmd(t, "history", "--db-dir", dbDir, "--diff", samplePhoto(t, "never.jpg"))
	if err == nil || !strings.Contains(err.Error(), "no extraction history") {
		t.Errorf("expected error, got %v", err)
	}
}

// TestHistoryCopiesAndRun tests content hash and run lookups.
func TestHistoryCopiesAndRun(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	original := samplePhoto(t, "original.jpg")
	copied := samplePhoto(t, "copy.jpg")
	inspectInto(t, dbDir, original, copied)

	stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--copies", original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, original) || !strings.Contains(stdout, copied) {
		t.Errorf("expected both copies:\n%s", stdout)
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	entries, err := db.GetHistoryWithMetadata(t.Context(), original)
	db.Close()
	if err != nil || len(entries) != 1 {
		t.Fatalf("GetHistoryWithMetadata() = %v, %v", entries, err)
	}

	stdout, _, err = executeCmd(t, "history", "--db-dir", dbDir, "--run", entries[0].RunID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "(2 extractions)") {
		t.Errorf("expected both files in the run:\n%s", stdout)
	}

	if _, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--run", "no-such-run"); err == nil {
		t.Error("expected error for an unknown run")
	}
}

// TestListRecordedFilesEmpty tests the empty database message.
func TestListRecordedFilesEmpty(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	db.Close()

	stdout, _, err := executeCmd(t, "history", "--db-dir", dbDir, "--list-files")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No recorded files found") {
		t.Errorf("unexpected output %q", stdout)
	}
}

// TestHistoryWithoutDatabase tests that reading history never creates the
// database.
func TestHistoryWithoutDatabase(t *testing.T) {
	t.Parallel()

	dbDir := filepath.Join(t.TempDir(), "imgmeta")
	for _, args := range [][]string{
		{"history", "--db-dir", dbDir, "--list-files"},
		{"history", "--db-dir", dbDir, "photo.jpg"},
	} {
		_, _, err := executeCmd(t, args...)
		if !errors.Is(err, errNoHistory) {
			t.Errorf("%v: expected errNoHistory, got %v", args, err)
		}
	}
	if _, err := os.Stat(dbDir); !os.IsNotExist(err) {
		t.Errorf("history created %s", dbDir)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func reportWith(hash string, sections []model.Section, findings ...model.Finding) *model.ImageReport {
	return &model.ImageReport{
		Path:          "/photos/a.jpg",
		Hash:          hash,
		DateExtracted: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sections:      sections,
		Findings:      findings,
	}
}

// TestCompareReports tests the comparison of two extractions.
func TestCompareReports(t *testing.T) {
	t.Parallel()

	camera := func(makeValue string) model.Section {
		s := model.Section{Name: model.SectionCamera}
		s.Add("Make", makeValue)
		return s
	}
	gps := model.NewFinding("exif_gps", "GPS GPSLatitude", "1° N, 2° E")
	cam := model.NewFinding("exif_camera", "Image Make", "Canon")
	software := model.NewFinding("exif_software", "Image Software", "GIMP")

	previous := reportWith("aaa",
		[]model.Section{camera("Canon"), {Name: model.SectionGPS, Fields: []model.Field{{Key: "Latitude", Value: "1° N"}}}},
		gps, cam)
	current := reportWith("aaa",
		[]model.Section{camera("Canon"), {Name: model.SectionGPS, Note: "redacted"}},
		cam, software)

	result := compareReports(previous, current)

	if result.ContentChanged {
		t.Error("same hash should not be reported as changed")
	}
	if result.UnchangedCount != 1 {
		t.Errorf("UnchangedCount = %d, expected 1", result.UnchangedCount)
	}
	if len(result.NewFindings) != 1 || result.NewFindings[0].Type != "exif_software" {
		t.Errorf("NewFindings = %+v", result.NewFindings)
	}
	if len(result.ResolvedFindings) != 1 || result.ResolvedFindings[0].Type != "exif_gps" {
		t.Errorf("ResolvedFindings = %+v", result.ResolvedFindings)
	}
	if result.RiskChange.Direction != riskDirectionImproved {
		t.Errorf("Direction = %q", result.RiskChange.Direction)
	}

	expected := []FieldChange{
		{Section: model.SectionGPS, Field: noteField, Current: "redacted"},
		{Section: model.SectionGPS, Field: "Latitude", Previous: "1° N"},
	}
	if len(result.Changes) != len(expected) {
		t.Fatalf("Changes = %+v, expected %+v", result.Changes, expected)
	}
	for i := range expected {
		if result.Changes[i] != expected[i] {
			t.Errorf("Changes[%d] = %+v, expected %+v", i, result.Changes[i], expected[i])
		}
	}
}

// TestCalculateRiskChange tests the weighted risk direction.
func TestCalculateRiskChange(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		previous ExtractionSummary
		current  ExtractionSummary
		expected string
	}{
		{name: "unchanged", expected: riskDirectionUnchanged},
		{
			name:     "gps removed",
			previous: ExtractionSummary{CriticalCount: 1, MediumCount: 1},
			current:  ExtractionSummary{MediumCount: 1},
			expected: riskDirectionImproved,
		},
		{
			name:     "one critical outweighs many low",
			previous: ExtractionSummary{LowCount: 10},
			current:  ExtractionSummary{CriticalCount: 1},
			expected: riskDirectionWorsened,
		},
		{
			name:     "serial added",
			previous: ExtractionSummary{InfoCount: 3},
			current:  ExtractionSummary{InfoCount: 3, HighCount: 1},
			expected: riskDirectionWorsened,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateRiskChange(tc.previous, tc.current)
			if got.Direction != tc.expected {
				t.Errorf("Direction = %q, expected %q", got.Direction, tc.expected)
			}
		})
	}
}

// TestFormatRiskSummary tests the compact severity summary.
func TestFormatRiskSummary(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		summary  map[string]int
		expected string
	}{
		{summary: nil, expected: model.NotAvailable},
		{summary: map[string]int{}, expected: noFindingsMessage},
		{summary: map[string]int{"critical": 1, "medium": 2}, expected: "C:1 M:2"},
		{summary: map[string]int{"info": 4, "high": 1, "low": 0}, expected: "H:1 I:4"},
	}
	for _, tc := range testCases {
		if got := formatRiskSummary(tc.summary); got != tc.expected {
			t.Errorf("formatRiskSummary(%v) = %q, expected %q", tc.summary, got, tc.expected)
		}
	}
}

// TestFormatHelpers tests the small display helpers.
func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	if got := formatDelta(2); got != "+2" {
		t.Errorf("formatDelta(2) = %q", got)
	}
	if got := formatDelta(-3); got != "-3" {
		t.Errorf("formatDelta(-3) = %q", got)
	}
	if got := formatDelta(0); got != "0" {
		t.Errorf("formatDelta(0) = %q", got)
	}
	if got := formatRiskDirection(riskDirectionWorsened); !strings.HasPrefix(got, "WORSENED") {
		t.Errorf("formatRiskDirection() = %q", got)
	}
	if got := formatRiskDirection(""); got != "UNCHANGED" {
		t.Errorf("formatRiskDirection(\"\") = %q", got)
	}
	if got := shortHash("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortHash() = %q", got)
	}
	if got := shortHash(""); got != model.NotAvailable {
		t.Errorf("shortHash(\"\") = %q", got)
	}
}

// TestOutputComparisonText tests the text layout without field changes.
func TestOutputComparisonText(t *testing.T) {
	t.Parallel()

	r := reportWith("abc", nil)
	var buf bytes.Buffer
	if err := outputComparisonText(&buf, compareReports(r, r)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Risk Status: UNCHANGED", "No field changes.", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "File content changed") {
		t.Error("identical hashes should not report a content change")
	}
}
