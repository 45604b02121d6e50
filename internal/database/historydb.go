package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/imgmeta/internal/model"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "imgmeta.db"

// ErrDatabaseNotFound is returned by Open when the database file does not
// exist and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("history database not found")

// HistoryDB stores extraction reports in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// NewRunID returns a new identifier grouping the reports of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates a HistoryDB in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		path TEXT NOT NULL,
		hash TEXT,
		file_size INTEGER,
		decoder TEXT,
		has_gps INTEGER DEFAULT 0,
		timestamp TEXT NOT NULL,
		report_json TEXT NOT NULL,
		risk_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_path ON extractions(path);
	CREATE INDEX IF NOT EXISTS idx_extractions_hash ON extractions(hash);
	CREATE INDEX IF NOT EXISTS idx_extractions_run ON extractions(run_id);
	`
	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Metadata summarises a stored extraction without loading the report.
type Metadata struct {
	// ID is the database identifier of the extraction.
	ID int64 `json:"id"`

	// RunID groups the extractions of one invocation.
	RunID string `json:"run_id"`

	// Path is the absolute path of the file.
	Path string `json:"path"`

	// Hash is the SHA3-256 of the file contents.
	Hash string `json:"hash"`

	// HasGPS reports whether the file carried a position.
	HasGPS bool `json:"has_gps"`

	// Timestamp is when the file was inspected.
	Timestamp time.Time `json:"timestamp"`

	// RiskSummary counts findings per lower-case severity name.
	RiskSummary map[string]int `json:"risk_summary"`
}

// SaveReport stores report under runID and returns its database ID.
// The path is stored in absolute form so later lookups from another
// working directory still match.
func (hdb *HistoryDB) SaveReport(ctx context.Context, runID string, report *model.ImageReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	riskSummary := make(map[string]int, len(model.SeverityLevels))
	counts := report.CountBySeverity()
	for _, s := range model.SeverityLevels {
		riskSummary[strings.ToLower(s.String())] = counts[s]
	}
	riskJSON, _ := json.Marshal(riskSummary) //nolint:errcheck,errchkjson // map[string]int always marshals

	timestamp := report.DateExtracted
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	query := `
	INSERT INTO extractions (run_id, path, hash, file_size, decoder, has_gps, timestamp, report_json, risk_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := hdb.db.ExecContext(ctx, query,
		runID,
		normalizePath(report.Path),
		report.Hash,
		report.FileSize,
		report.Decoder,
		hasGPS(report),
		timestamp.UTC().Format(time.RFC3339Nano),
		string(reportJSON),
		string(riskJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}
	return res.LastInsertId()
}

// GetLatestReport returns the most recent report for path, or nil.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context, path string) (*model.ImageReport, error) {
	query := `
	SELECT report_json FROM extractions
	WHERE path = ?
	ORDER BY id DESC
	LIMIT 1
	`
	return hdb.queryReport(ctx, query, normalizePath(path))
}

// GetReportByID returns the report stored under id, or nil.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.ImageReport, error) {
	return hdb.queryReport(ctx, `SELECT report_json FROM extractions WHERE id = ?`, id)
}

func (hdb *HistoryDB) queryReport(ctx context.Context, query string, args ...any) (*model.ImageReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.ImageReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// GetHistory returns every report for path, newest first.
// Malformed rows are skipped.
func (hdb *HistoryDB) GetHistory(ctx context.Context, path string) ([]*model.ImageReport, error) {
	query := `
	SELECT report_json FROM extractions
	WHERE path = ?
	ORDER BY id DESC
	`
	rows, err := hdb.db.QueryContext(ctx, query, normalizePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ImageReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var report model.ImageReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// GetHistoryWithMetadata returns extraction summaries for path, newest first.
func (hdb *HistoryDB) GetHistoryWithMetadata(ctx context.Context, path string) ([]Metadata, error) {
	return hdb.queryMetadata(ctx, `WHERE path = ?`, normalizePath(path))
}

// FindByHash returns every extraction of a file with the given content
// hash, newest first. This finds copies of the same image under other names.
func (hdb *HistoryDB) FindByHash(ctx context.Context, hash string) ([]Metadata, error) {
	return hdb.queryMetadata(ctx, `WHERE hash = ?`, hash)
}

// GetRun returns the extractions recorded by one invocation.
func (hdb *HistoryDB) GetRun(ctx context.Context, runID string) ([]Metadata, error) {
	return hdb.queryMetadata(ctx, `WHERE run_id = ?`, runID)
}

func (hdb *HistoryDB) queryMetadata(ctx context.Context, where string, args ...any) ([]Metadata, error) {
	query := `
	SELECT id, run_id, path, hash, has_gps, timestamp, risk_summary
	FROM extractions
	` + where + `
	ORDER BY id DESC
	`
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []Metadata
	for rows.Next() {
		var meta Metadata
		var hash sql.NullString
		var gps int
		var timestamp string
		var riskJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Path, &hash, &gps, &timestamp, &riskJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Hash = hash.String
		meta.HasGPS = gps != 0
		meta.Timestamp = parseTimestamp(timestamp)
		meta.RiskSummary = make(map[string]int)
		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &meta.RiskSummary); err != nil {
				meta.RiskSummary = make(map[string]int)
			}
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// ListFiles returns every path with at least one stored extraction.
func (hdb *HistoryDB) ListFiles(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT path FROM extractions ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		files = append(files, path)
	}
	return files, rows.Err()
}

// normalizePath returns the absolute, cleaned form of path.
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func hasGPS(report *model.ImageReport) bool {
	for _, f := range report.Findings {
		if f.Type == "exif_gps" {
			return true
		}
	}
	return false
}

// timestampFormats contains the timestamp formats that may be stored.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
