package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that sensitive keys are masked.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "latitude key is masked", key: "latitude", value: "40.446111", wantMask: true},
		{name: "Longitude key (mixed case) is masked", key: "Longitude", value: "-79.982222", wantMask: true},
		{name: "gps key is masked", key: "gps", value: "somewhere", wantMask: true},
		{name: "serial key is masked", key: "serial", value: "012345678901", wantMask: true},
		{name: "owner key is masked", key: "owner", value: "Jane Doe", wantMask: true},
		{name: "artist key is masked", key: "artist", value: "Jane Doe", wantMask: true},
		{name: "maps_link key is masked", key: "maps_link", value: "see map", wantMask: true},
		{name: "file key is NOT masked", key: "file", value: "/photos/beach.jpg", wantMask: false},
		{name: "decoder key is NOT masked", key: "decoder", value: "go-exif", wantMask: false},
		{name: "count key is NOT masked", key: "count", value: "42", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be masked, but found in output: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value %q in output, but not found: %s", MaskValue, output)
				}
				return
			}
			if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_SanitizesSensitivePatterns tests value based masking.
func TestSecureHandler_SanitizesSensitivePatterns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Debug("tag decoded", "tag", "GPS GPSLatitude", "value", "40.44611° N")

	output := buf.String()
	if strings.Contains(output, "40.44611") {
		t.Errorf("expected coordinate to be masked: %s", output)
	}
	if !strings.Contains(output, "GPS GPSLatitude") {
		t.Errorf("expected tag name to be visible: %s", output)
	}
}

// TestSecureHandler_LogLevels tests the verbose switch.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		logLevel   slog.Level
		shouldShow bool
	}{
		{name: "debug shown in verbose mode", verbose: true, logLevel: slog.LevelDebug, shouldShow: true},
		{name: "debug hidden in normal mode", verbose: false, logLevel: slog.LevelDebug, shouldShow: false},
		{name: "info hidden in normal mode", verbose: false, logLevel: slog.LevelInfo, shouldShow: false},
		{name: "warn shown in normal mode", verbose: false, logLevel: slog.LevelWarn, shouldShow: true},
		{name: "error shown in normal mode", verbose: false, logLevel: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, tt.verbose)

			const testMsg = "test_unique_message_12345"
			logger.Log(t.Context(), tt.logLevel, testMsg)

			hasMessage := strings.Contains(buf.String(), testMsg)
			if tt.shouldShow != hasMessage {
				t.Errorf("message shown = %v, expected %v: %s", hasMessage, tt.shouldShow, buf.String())
			}
		})
	}
}

// TestSecureHandler_WithAttrs tests that WithAttrs masks attributes.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.With("body_serial", "SN-998877").Info("test message")

	output := buf.String()
	if strings.Contains(output, "SN-998877") {
		t.Errorf("expected serial to be masked in WithAttrs, but found in output: %s", output)
	}
	if !strings.Contains(output, MaskValue) {
		t.Errorf("expected mask value in output, but not found: %s", output)
	}
}

// TestSecureHandler_WithGroup tests that grouped attributes are masked.
func TestSecureHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.WithGroup("exif").Info("test message",
		"file", "beach.jpg",
		slog.Group("camera", "owner", "Jane Doe"),
	)

	output := buf.String()
	if !strings.Contains(output, "beach.jpg") {
		t.Errorf("expected file to be visible, but not found in output: %s", output)
	}
	if strings.Contains(output, "Jane Doe") {
		t.Errorf("expected owner to be masked, but found in output: %s", output)
	}
}

// TestNewSecureJSONLogger tests JSON logger creation.
func TestNewSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, true)
	logger.Info("test message", "artist", "Jane Doe")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON format, but got: %s", output)
	}
	if strings.Contains(output, "Jane Doe") {
		t.Errorf("expected artist to be masked, but found in output: %s", output)
	}
}

// TestContainsSensitiveKeyword tests the containsSensitiveKeyword helper.
func TestContainsSensitiveKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"gps_latitude", true},
		{"camera_serial_number", true},
		{"camera_owner", true},
		{"artist_name", true},

		{"file", false},
		{"decoder", false},
		{"format", false},
		// Short location keys only match exactly.
		{"translate", false},
		{"relative", false},
		{"longest", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := containsSensitiveKeyword(tt.key); got != tt.expected {
				t.Errorf("containsSensitiveKeyword(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

// TestNewSecureHandler_NilHandler tests that a nil handler falls back to the default.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
	slog.New(handler).Info("test message")
}

// TestIsSensitiveValue tests the isSensitiveValue helper.
func TestIsSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "formatted latitude", value: "40.44611° N", expected: true},
		{name: "formatted longitude", value: "79.98222° W", expected: true},
		{name: "coordinate pair", value: "40.446111,-79.982222", expected: true},
		{name: "maps link", value: "https://www.google.com/maps?q=40.446111,-79.982222", expected: true},
		{name: "unique image id", value: "0123456789abcdef0123456789ABCDEF", expected: true},
		{name: "sha3 hash is not an id", value: strings.Repeat("ab", 32), expected: false},
		{name: "plain text", value: "hello world", expected: false},
		{name: "file path", value: "/photos/2023/beach.jpg", expected: false},
		{name: "f-number", value: "14/5", expected: false},
		{name: "version", value: "1.25", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSensitiveValue(tt.value); got != tt.expected {
				t.Errorf("isSensitiveValue(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
