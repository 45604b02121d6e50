package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no image path is given.
	ErrNoTarget = errors.New("no target specified: provide at least one image path")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxFileSize is returned when the size limit is negative.
	// Use 0 to disable the limit.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownFormat is returned by LoadConfigFile for an unsupported
	// format value.
	ErrUnknownFormat = errors.New("unknown report format: must be text, json or markdown")
)
