package config

import (
	"path/filepath"
	"slices"
	"strings"
)

// Report formats accepted in the configuration file.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Settings holds the options that may differ per file.
// Pointer fields distinguish "not set" from false.
type Settings struct {
	// HideGPS replaces the GPS section with a redaction note.
	HideGPS *bool `yaml:"hide_gps,omitempty"`

	// Fallback enables the secondary EXIF decoder.
	Fallback *bool `yaml:"fallback,omitempty"`

	// MaxFileSize overrides the size limit in bytes. Zero disables the
	// limit; unset keeps the inherited value.
	MaxFileSize *int64 `yaml:"max_file_size,omitempty"`
}

// Hidden reports whether GPS output is redacted.
func (s Settings) Hidden() bool {
	return s.HideGPS != nil && *s.HideGPS
}

// FallbackEnabled reports whether the secondary decoder is used.
// Unset means enabled.
func (s Settings) FallbackEnabled() bool {
	return s.Fallback == nil || *s.Fallback
}

// SizeLimit returns the file size limit in bytes, zero meaning no limit.
// Unset means DefaultMaxFileSize.
func (s Settings) SizeLimit() int64 {
	if s.MaxFileSize == nil {
		return DefaultMaxFileSize
	}
	return *s.MaxFileSize
}

func (s Settings) merge(rules ...Settings) Settings {
	for _, r := range rules {
		if r.HideGPS != nil {
			s.HideGPS = r.HideGPS
		}
		if r.Fallback != nil {
			s.Fallback = r.Fallback
		}
		if r.MaxFileSize != nil {
			s.MaxFileSize = r.MaxFileSize
		}
	}
	return s
}

// File represents the structure of the .imgmeta configuration file.
type File struct {
	// Defaults apply to every file unless a path rule overrides them.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Paths maps glob patterns to settings. A pattern matches either the
	// full path or the base name, so "*.heic" and "/srv/public/*" both work.
	Paths map[string]Settings `yaml:"paths,omitempty"`

	// Batch is the number of files inspected concurrently.
	Batch int `yaml:"batch,omitempty"`

	// Filter is the default filter expression.
	Filter string `yaml:"filter,omitempty"`

	// Format is the default report format: text, json or markdown.
	Format string `yaml:"format,omitempty"`

	// History enables or disables the extraction history database.
	History *bool `yaml:"history,omitempty"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"db_dir,omitempty"`
}

// rulesFor returns every path rule matching path. Rules are returned in
// pattern order, so with overlapping rules the lexically greater pattern
// wins when they are merged.
func (f *File) rulesFor(path string) []Settings {
	patterns := make([]string, 0, len(f.Paths))
	for pattern := range f.Paths {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	var rules []Settings
	for _, pattern := range patterns {
		if matchPath(pattern, path) {
			rules = append(rules, f.Paths[pattern])
		}
	}
	return rules
}

func matchPath(pattern, path string) bool {
	if ok, _ := filepath.Match(pattern, path); ok {
		return true
	}
	if strings.ContainsRune(pattern, filepath.Separator) {
		return false
	}
	ok, _ := filepath.Match(pattern, filepath.Base(path))
	return ok
}
