package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of files inspected concurrently.
	// Inspection is CPU and disk bound, so a small number keeps the
	// machine responsive while still overlapping I/O.
	DefaultBatchSize = 4

	// DefaultMaxFileSize is the largest file read into memory, in bytes.
	// 200MB covers RAW files from current cameras.
	DefaultMaxFileSize int64 = 200 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "imgmeta"
)

// Config holds all configuration options for imgmeta.
// It is populated from CLI flags and the optional YAML file, then passed
// through the application explicitly rather than kept as global state.
type Config struct {
	// Targets is the list of image paths to inspect.
	Targets []string

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of files inspected concurrently.
	BatchSize int

	// MaxFileSize is the largest file accepted, in bytes.
	// Zero disables the limit.
	MaxFileSize int64

	// HideGPS replaces the GPS section with a redaction note.
	HideGPS bool

	// Fallback enables the lenient secondary EXIF decoder when the primary
	// decoder rejects a block.
	Fallback bool

	// Filter is an optional boolean expression; reports that do not match
	// are not printed.
	Filter string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .imgmeta is searched in the current and home directories.
	ConfigFilePath string

	// Settings holds the contents of the configuration file, if any.
	Settings *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with
	// JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// SaveToDB stores every report in the history database. Off unless
	// enabled with --history or "history: true" in the configuration file.
	SaveToDB bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/imgmeta on Linux).
	DBDir string

	// explicit names the flags set on the command line. Their values win
	// over the configuration file, path rules included.
	explicit map[string]bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: A constructor documents the non-zero defaults (batch
// size, size limit and fallback) in one place. History recording is off by
// default so that locations are never written to disk unasked.
func NewConfig() *Config {
	return &Config{
		BatchSize:   DefaultBatchSize,
		MaxFileSize: DefaultMaxFileSize,
		Fallback:    true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for imgmeta.
// On Linux: ~/.local/share/imgmeta
// On macOS: ~/Library/Application Support/imgmeta
// On Windows: %LOCALAPPDATA%\imgmeta
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for imgmeta.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxFileSize < 0 {
		return ErrInvalidMaxFileSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ApplyFile copies the file's global values onto c. Fields listed in
// explicit were set on the command line and are left alone; they also
// take precedence over the file's path rules in SettingsFor.
func (c *Config) ApplyFile(f *File, explicit map[string]bool) {
	c.explicit = explicit
	if f == nil {
		return
	}
	c.Settings = f

	d := f.Defaults
	if d.HideGPS != nil && !explicit["hide-gps"] {
		c.HideGPS = *d.HideGPS
	}
	if d.Fallback != nil && !explicit["no-fallback"] {
		c.Fallback = *d.Fallback
	}
	if d.MaxFileSize != nil && !explicit["max-size"] {
		c.MaxFileSize = *d.MaxFileSize
	}
	if f.Batch > 0 && !explicit["batch"] {
		c.BatchSize = f.Batch
	}
	if f.Filter != "" && !explicit["filter"] {
		c.Filter = f.Filter
	}
	if f.History != nil && !explicit["history"] && !explicit["no-history"] {
		c.SaveToDB = *f.History
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
	if !explicit["json"] && !explicit["markdown"] {
		switch f.Format {
		case FormatJSON:
			c.JSONReport = true
		case FormatMarkdown:
			c.MarkdownReport = true
		}
	}
}

// SettingsFor returns the per-file settings for path. Values are layered
// as configuration defaults, then matching path rules, then flags given
// on the command line.
func (c *Config) SettingsFor(path string) Settings {
	hide := c.HideGPS
	fallback := c.Fallback
	limit := c.MaxFileSize
	s := Settings{
		HideGPS:     &hide,
		Fallback:    &fallback,
		MaxFileSize: &limit,
	}
	if c.Settings == nil {
		return s
	}
	return s.merge(c.Settings.rulesFor(path)...).merge(c.flagSettings())
}

// flagSettings returns the per-file settings given on the command line.
func (c *Config) flagSettings() Settings {
	var s Settings
	if c.explicit["hide-gps"] {
		hide := c.HideGPS
		s.HideGPS = &hide
	}
	if c.explicit["no-fallback"] {
		fallback := c.Fallback
		s.Fallback = &fallback
	}
	if c.explicit["max-size"] {
		limit := c.MaxFileSize
		s.MaxFileSize = &limit
	}
	return s
}
