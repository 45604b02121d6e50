package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/imgmeta/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newReport creates a report with one camera section and the given findings.
func newReport(path, hash, cameraMake string, findings ...model.Finding) *model.ImageReport {
	report := model.NewImageReport(path)
	report.Hash = hash
	report.FileSize = 1234
	report.Decoder = "go-exif"

	camera := model.Section{Name: model.SectionCamera}
	camera.Add("Make", cameraMake)
	report.Sections = []model.Section{camera}
	report.Findings = findings
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, DBFileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dir, Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
		if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
			t.Errorf("Open without CreateIfNotExists should not create %s", dir)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveReport(context.Background(), NewRunID(), newReport("/a.jpg", "h", "Canon")); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		files, err := db.ListFiles(context.Background())
		if err != nil || len(files) != 1 {
			t.Errorf("ListFiles() = %v, %v", files, err)
		}
	})
}

// TestDefaultOptions tests the default options.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists || !opts.EnableWAL {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

// TestSaveAndGetReport tests storing and loading reports.
func TestSaveAndGetReport(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	gps := model.NewFinding("exif_gps", "GPS GPSLatitude", "40.44611° N, 79.98222° W")
	report := newReport("/photos/a.jpg", "abc", "Canon", gps)

	id, err := db.SaveReport(ctx, NewRunID(), report)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	t.Run("latest", func(t *testing.T) {
		t.Parallel()

		got, err := db.GetLatestReport(ctx, "/photos/a.jpg")
		if err != nil {
			t.Fatalf("GetLatestReport() error = %v", err)
		}
		if got == nil || got.Hash != "abc" || got.FileName != "a.jpg" {
			t.Fatalf("unexpected report %+v", got)
		}
		if v, _ := got.Section(model.SectionCamera).Get("Make"); v != "Canon" {
			t.Errorf("Make = %q", v)
		}
		if len(got.Findings) != 1 || got.Findings[0].Severity != model.SeverityCritical {
			t.Errorf("findings not restored: %+v", got.Findings)
		}
	})

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		got, err := db.GetReportByID(ctx, id)
		if err != nil || got == nil || got.Path != "/photos/a.jpg" {
			t.Errorf("GetReportByID() = %+v, %v", got, err)
		}
	})

	t.Run("unknown path and id return nil", func(t *testing.T) {
		t.Parallel()

		got, err := db.GetLatestReport(ctx, "/photos/none.jpg")
		if err != nil || got != nil {
			t.Errorf("GetLatestReport() = %+v, %v", got, err)
		}
		got, err = db.GetReportByID(ctx, 9999)
		if err != nil || got != nil {
			t.Errorf("GetReportByID() = %+v, %v", got, err)
		}
	})
}

// TestGetHistory tests ordering and metadata.
func TestGetHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	runID := NewRunID()

	for _, mk := range []string{"Canon", "Nikon", "Sony"} {
		if _, err := db.SaveReport(ctx, runID, newReport("/photos/a.jpg", "h-"+mk, mk)); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}
	if _, err := db.SaveReport(ctx, runID, newReport("/photos/b.jpg", "other", "Canon")); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	reports, err := db.GetHistory(ctx, "/photos/a.jpg")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if v, _ := reports[0].Section(model.SectionCamera).Get("Make"); v != "Sony" {
		t.Errorf("newest report first, got Make %q", v)
	}

	meta, err := db.GetHistoryWithMetadata(ctx, "/photos/a.jpg")
	if err != nil {
		t.Fatalf("GetHistoryWithMetadata() error = %v", err)
	}
	if len(meta) != 3 || meta[0].Hash != "h-Sony" || meta[0].RunID != runID {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta[0].Timestamp.IsZero() {
		t.Error("timestamp should be parsed")
	}
	if _, ok := meta[0].RiskSummary["critical"]; !ok {
		t.Errorf("risk summary should list every severity: %v", meta[0].RiskSummary)
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil || len(run) != 4 {
		t.Errorf("GetRun() = %d entries, %v", len(run), err)
	}
}

// TestListFilesAndFindByHash tests cross-file queries.
func TestListFilesAndFindByHash(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	gps := model.NewFinding("exif_gps", "GPS GPSLatitude", "1° N, 2° E")
	for _, r := range []*model.ImageReport{
		newReport("/photos/b.jpg", "same", "Canon", gps),
		newReport("/backup/copy.jpg", "same", "Canon", gps),
		newReport("/photos/c.png", "different", "Canon"),
	} {
		if _, err := db.SaveReport(ctx, NewRunID(), r); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	files, err := db.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	expected := []string{"/backup/copy.jpg", "/photos/b.jpg", "/photos/c.png"}
	if len(files) != len(expected) {
		t.Fatalf("ListFiles() = %v", files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Errorf("files[%d] = %q, expected %q", i, files[i], expected[i])
		}
	}

	copies, err := db.FindByHash(ctx, "same")
	if err != nil {
		t.Fatalf("FindByHash() error = %v", err)
	}
	if len(copies) != 2 || copies[0].Path != "/backup/copy.jpg" || !copies[0].HasGPS {
		t.Errorf("unexpected copies %+v", copies)
	}
}

// TestNormalizePath tests that relative paths are stored absolute.
func TestNormalizePath(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := normalizePath("a/../b.jpg"); got != filepath.Join(wd, "b.jpg") {
		t.Errorf("normalizePath() = %q", got)
	}
}

// TestParseTimestamp tests supported formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"2024-01-02T03:04:05.123456789Z",
		"2024-01-02T03:04:05Z",
		"2024-01-02 03:04:05",
	} {
		if parseTimestamp(s).IsZero() {
			t.Errorf("parseTimestamp(%q) returned zero time", s)
		}
	}
	if !parseTimestamp("yesterday").IsZero() {
		t.Error("expected zero time for unparsable input")
	}
}
