package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	exif "github.com/dsoprea/go-exif/v3"
	"go4.org/media/heif"

	"github.com/nao1215/imgmeta/internal/model"
)

// Decoder names recorded on the report.
const (
	DecoderGoExif  = "go-exif"
	DecoderGoexif  = "goexif"
	decoderUnknown = ""
)

// options holds extraction settings.
type options struct {
	fallback bool
	logger   *slog.Logger
}

// Option configures Extract.
type Option func(*options)

// WithoutFallback disables the lenient fallback decoder.
func WithoutFallback() Option {
	return func(o *options) {
		o.fallback = false
	}
}

// WithLogger sets the logger used to report decoder problems.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Extract decodes every EXIF tag found in data.
// It returns the tags and the name of the decoder that produced them.
//
// ErrNoEXIF means the file has no EXIF block at all. ErrCorruptEXIF means a
// block was found but neither decoder could read it; the error wraps the
// primary decoder's error.
func Extract(data []byte, opts ...Option) (*model.TagSet, string, error) {
	o := &options{
		fallback: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if len(data) == 0 {
		return nil, decoderUnknown, ErrEmptyData
	}

	if IsHEIF(data) {
		raw, err := heif.Open(bytes.NewReader(data)).EXIF()
		if err != nil {
			if errors.Is(err, heif.ErrNoEXIF) {
				return nil, decoderUnknown, ErrNoEXIF
			}
			return nil, decoderUnknown, fmt.Errorf("%w: heif: %w", ErrCorruptEXIF, err)
		}
		data = raw
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, decoderUnknown, ErrNoEXIF
		}
		return nil, decoderUnknown, fmt.Errorf("%w: %w", ErrCorruptEXIF, err)
	}

	tags, primaryErr := decodeGoExif(rawExif)
	if primaryErr == nil && tags.Len() > 0 {
		return tags, DecoderGoExif, nil
	}
	if primaryErr == nil {
		primaryErr = errors.New("no tags decoded")
	}
	o.logger.Debug("primary EXIF decoder failed", "decoder", DecoderGoExif, "error", primaryErr)

	if !o.fallback {
		return nil, decoderUnknown, fmt.Errorf("%w: %w", ErrCorruptEXIF, primaryErr)
	}

	tags, err = decodeGoexif(rawExif)
	if err != nil || tags.Len() == 0 {
		o.logger.Debug("fallback EXIF decoder failed", "decoder", DecoderGoexif, "error", err)
		return nil, decoderUnknown, fmt.Errorf("%w: %w", ErrCorruptEXIF, primaryErr)
	}
	return tags, DecoderGoexif, nil
}

// IsHEIF reports whether data starts with an ISO-BMFF ftyp box carrying a
// HEIF brand.
func IsHEIF(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heim", "heis", "hevc", "hevx", "mif1", "msf1", "avif":
		return true
	}
	return false
}
