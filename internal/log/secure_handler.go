package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	// Location
	"gps":         true,
	"latitude":    true,
	"longitude":   true,
	"lat":         true,
	"lon":         true,
	"lng":         true,
	"altitude":    true,
	"coordinates": true,
	"position":    true,
	"maps_link":   true,
	"time_zone":   true,

	// Device identity
	"serial":        true,
	"serial_number": true,
	"body_serial":   true,
	"lens_serial":   true,
	"unique_id":     true,
	"image_id":      true,

	// People
	"owner":     true,
	"artist":    true,
	"author":    true,
	"copyright": true,
}

// sensitivePatterns contains patterns of values masked regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	// Formatted coordinate, e.g. "40.44611° N"
	regexp.MustCompile(`^\d{1,3}(\.\d+)?°\s*[NSEW]$`),

	// Decimal coordinate pair, e.g. "40.446111,-79.982222"
	regexp.MustCompile(`^-?\d{1,3}\.\d{3,},\s*-?\d{1,3}\.\d{3,}$`),

	// Map links carrying a position
	regexp.MustCompile(`(?i)^https?://[^ ]*maps[^ ]*[?&](q|ll|query)=-?\d`),

	// EXIF ImageUniqueID is 32 hex digits
	regexp.MustCompile(`^[0-9A-Fa-f]{32}$`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks sensitive attributes before
// passing records on.
//
// Design decision: A handler wrapper works with any underlying handler
// (text, JSON) and with every component that accepts a *slog.Logger, so
// callers never need to remember to scrub values themselves.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks a single attribute, recursing into groups.
func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			sanitized[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || containsSensitiveKeyword(key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isSensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// containsSensitiveKeyword checks if the key contains a sensitive keyword.
// Short keys such as "lat" are matched exactly only, to avoid hits like
// "translate" or "relative".
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range []string{
		"gps", "latitude", "longitude", "serial", "owner", "artist",
	} {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches a sensitive pattern.
func isSensitiveValue(value string) bool {
	value = strings.TrimSpace(value)
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger creates a text logger that masks sensitive values.
// verbose selects slog.LevelDebug; otherwise only warnings and errors are
// written.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger creates a JSON logger that masks sensitive values.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
