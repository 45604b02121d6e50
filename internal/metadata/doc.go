// Package metadata extracts EXIF tags from image files.
//
// Extraction is delegated to two decoders. The primary decoder is
// github.com/dsoprea/go-exif/v3, which locates the TIFF header anywhere in
// the file and walks every IFD including thumbnail and interoperability
// directories. When it finds an EXIF block it cannot parse, the bytes are
// handed to github.com/rwcarlsen/goexif, which is more lenient with broken
// offsets written by some phone firmwares.
//
// HEIF/HEIC containers keep EXIF in a separate item rather than an APP1
// segment, so the item is located with go4.org/media/heif first.
//
// Design decision: Both decoders normalise their values into the shapes
// documented on model.Tag. Code outside this package never sees a
// library-specific type, which keeps the report builder decoder agnostic.
package metadata
