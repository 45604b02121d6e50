package metadata

import "errors"

var (
	// ErrNoEXIF is returned when the data does not contain an EXIF block.
	// Callers treat it as "no metadata" rather than as a failure.
	ErrNoEXIF = errors.New("no EXIF data found")

	// ErrEmptyData is returned when Extract is called with no bytes.
	ErrEmptyData = errors.New("empty image data")

	// ErrCorruptEXIF is returned when an EXIF block was found but no
	// decoder could parse it.
	ErrCorruptEXIF = errors.New("EXIF data could not be parsed")
)
