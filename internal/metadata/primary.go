package metadata

import (
	"fmt"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"github.com/nao1215/imgmeta/internal/model"
)

// decodeGoExif parses a raw EXIF block starting at the TIFF header.
func decodeGoExif(rawExif []byte) (*model.TagSet, error) {
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, err
	}

	tags := model.NewTagSet()
	for _, entry := range entries {
		// Sub-IFD pointers are structure, not metadata.
		if entry.ChildIfdPath != "" {
			continue
		}
		group, ok := groupForIfdPath(entry.IfdPath)
		if !ok {
			continue
		}

		var value any
		if entry.TagTypeId == exifcommon.TypeUndefined {
			value = undefinedValue(entry)
		} else {
			value = normaliseValue(entry.Value)
		}
		if value == nil {
			value = entry.Formatted
		}

		name := entry.TagName
		if name == "" {
			name = unknownTagName(entry.TagId)
		}

		tags.Add(&model.Tag{
			Group: group,
			ID:    entry.TagId,
			Name:  name,
			Type:  entry.TagTypeName,
			Count: entry.UnitCount,
			Value: value,
		})
	}
	return tags, nil
}

// groupForIfdPath maps a go-exif IFD path such as "IFD/Exif" or "IFD1" to a
// tag group. Index suffixes are ignored except on the root, where index 1
// is the thumbnail directory.
func groupForIfdPath(ifdPath string) (string, bool) {
	parts := strings.Split(ifdPath, "/")
	thumbnail := strings.TrimPrefix(parts[0], "IFD") == "1"
	for i := range parts {
		parts[i] = strings.TrimRight(parts[i], "0123456789")
	}

	switch strings.Join(parts, "/") {
	case "IFD":
		if thumbnail {
			return model.GroupThumbnail, true
		}
		return model.GroupImage, true
	case "IFD/Exif":
		return model.GroupEXIF, true
	case "IFD/GPSInfo":
		return model.GroupGPS, true
	case "IFD/Exif/Iop":
		return model.GroupInterop, true
	}
	return "", false
}

// undefinedValue keeps the raw bytes of an UNDEFINED tag. go-exif parses a
// few well-known undefined tags into structs; the raw bytes are what every
// consumer here wants.
func undefinedValue(entry exif.ExifTag) any {
	if len(entry.ValueBytes) > 0 {
		return append([]byte(nil), entry.ValueBytes...)
	}
	return entry.Formatted
}

// normaliseValue converts go-exif value types to model.Tag value shapes.
func normaliseValue(v any) any {
	switch val := v.(type) {
	case string:
		return decodeText([]byte(val))
	case []uint8:
		return widen(val)
	case []uint16:
		return widen(val)
	case []uint32:
		return widen(val)
	case []int32:
		return widen(val)
	case []exifcommon.Rational:
		out := make([]model.Rational, len(val))
		for i, r := range val {
			out[i] = model.Rational{Num: int64(r.Numerator), Den: int64(r.Denominator)}
		}
		return out
	case []exifcommon.SignedRational:
		out := make([]model.Rational, len(val))
		for i, r := range val {
			out[i] = model.Rational{Num: int64(r.Numerator), Den: int64(r.Denominator)}
		}
		return out
	case []float32:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return strings.Join(parts, ", ")
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, ", ")
	}
	return nil
}

// unknownTagName names a tag missing from the decoder's tag index.
func unknownTagName(id uint16) string {
	return fmt.Sprintf("UnknownTag_0x%04X", id)
}

type integer interface {
	~uint8 | ~uint16 | ~uint32 | ~int32
}

func widen[T integer](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
