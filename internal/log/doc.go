// Package log provides privacy-aware logging built on top of the standard
// slog package.
//
// Image metadata routinely carries information that identifies a person or
// a place: GPS coordinates, camera body serial numbers, owner and artist
// names, unique image IDs. Debug logging of decoded tags would copy those
// values into terminals and log files, so every logger created here masks
// them before they reach the underlying handler.
//
// # Masking Rules
//
// An attribute is masked when:
//   - its key names a sensitive field (latitude, serial, owner, artist, ...)
//   - its value looks like a coordinate, a coordinate pair or a map link
//   - its value looks like a 128-bit unique image ID
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("tag decoded", "tag", "GPS GPSLatitude", "value", "40.44611° N")
//	// value=***REDACTED***
//
//	slog.SetDefault(logger)
package log
