package imageinfo

import "errors"

// ErrUnknownFormat is returned when no registered decoder recognises the data.
var ErrUnknownFormat = errors.New("unknown image format")
