package extract

import (
	"strconv"

	"github.com/nao1215/imgmeta/internal/model"
)

// tagReader renders tag values for the report, substituting "N/A" for
// anything missing.
type tagReader struct {
	tags *model.TagSet
}

func (t tagReader) lookup(keys ...string) (*model.Tag, bool) {
	return t.tags.Lookup(keys...)
}

// text prints the first present tag verbatim.
func (t tagReader) text(keys ...string) string {
	tag, ok := t.lookup(keys...)
	if !ok {
		return model.NotAvailable
	}
	if s := tag.String(); s != "" {
		return s
	}
	return model.NotAvailable
}

// fraction prints the first value of a rational tag in reduced form.
func (t tagReader) fraction(key string) string {
	tag, ok := t.lookup(key)
	if !ok {
		return model.NotAvailable
	}
	r, ok := tag.Rational(0)
	if !ok {
		return model.NotAvailable
	}
	return r.String()
}

func (t tagReader) intValue(key string) (int64, bool) {
	tag, ok := t.lookup(key)
	if !ok {
		return 0, false
	}
	return tag.Int(0)
}

func (t tagReader) floatValue(key string) (float64, bool) {
	tag, ok := t.lookup(key)
	if !ok {
		return 0, false
	}
	return tag.Float(0)
}

// label maps the first value of an enumerated tag through table.
// Values missing from the table print as fallback.
func (t tagReader) label(table map[int64]string, fallback string, key string) string {
	v, ok := t.intValue(key)
	if !ok {
		return model.NotAvailable
	}
	if name, ok := table[v]; ok {
		return name
	}
	return fallback
}

// flash reports whether the flash fired. Only the plain "fired" and "did
// not fire" values are named; any mode or return-light bits print as
// Unknown.
func (t tagReader) flash() string {
	v, ok := t.intValue("EXIF Flash")
	if !ok {
		return model.NotAvailable
	}
	switch v {
	case 0:
		return "Flash did not fire"
	case 1:
		return "Flash fired"
	default:
		return Unknown
	}
}

func (t tagReader) noiseReduction() string {
	v, ok := t.intValue("EXIF NoiseReduction")
	if !ok {
		return model.NotAvailable
	}
	if v == 1 {
		return "On"
	}
	return "Off"
}

// list prints every value of a tag as "[a, b, c]", even when there is one.
func (t tagReader) list(key string) string {
	tag, ok := t.lookup(key)
	if !ok {
		return model.NotAvailable
	}
	s := tag.String()
	if tag.Len() == 1 {
		return "[" + s + "]"
	}
	return s
}

// compression checks the primary image first, then the thumbnail, which
// is where JPEG files usually declare it.
func (t tagReader) compression() string {
	for _, key := range []string{"Image Compression", "Thumbnail Compression"} {
		v, ok := t.intValue(key)
		if !ok {
			continue
		}
		if name, ok := compressions[v]; ok {
			return name
		}
		return strconv.FormatInt(v, 10)
	}
	return model.NotAvailable
}
