package metadata

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/nao1215/imgmeta/internal/model"
)

// imageFieldNames lists the goexif fields that live in IFD0.
// goexif flattens all directories into one namespace, so the group has to
// be recovered from the field name.
var imageFieldNames = map[exif.FieldName]bool{
	exif.ImageWidth:                true,
	exif.ImageLength:               true,
	exif.BitsPerSample:             true,
	exif.Compression:               true,
	exif.PhotometricInterpretation: true,
	exif.Orientation:               true,
	exif.SamplesPerPixel:           true,
	exif.PlanarConfiguration:       true,
	exif.YCbCrSubSampling:          true,
	exif.YCbCrPositioning:          true,
	exif.XResolution:               true,
	exif.YResolution:               true,
	exif.ResolutionUnit:            true,
	exif.DateTime:                  true,
	exif.ImageDescription:          true,
	exif.Make:                      true,
	exif.Model:                     true,
	exif.Software:                  true,
	exif.Artist:                    true,
	exif.Copyright:                 true,
}

// pointerFieldNames are sub-IFD offsets, skipped like in the primary decoder.
var pointerFieldNames = map[exif.FieldName]bool{
	exif.ExifIFDPointer:             true,
	exif.GPSInfoIFDPointer:          true,
	exif.InteroperabilityIFDPointer: true,
}

// typeNames maps TIFF data types to the names used by the primary decoder.
var typeNames = map[tiff.DataType]string{
	tiff.DTByte:      "BYTE",
	tiff.DTAscii:     "ASCII",
	tiff.DTShort:     "SHORT",
	tiff.DTLong:      "LONG",
	tiff.DTRational:  "RATIONAL",
	tiff.DTSByte:     "SBYTE",
	tiff.DTUndefined: "UNDEFINED",
	tiff.DTSShort:    "SSHORT",
	tiff.DTSLong:     "SLONG",
	tiff.DTSRational: "SRATIONAL",
	tiff.DTFloat:     "FLOAT",
	tiff.DTDouble:    "DOUBLE",
}

// decodeGoexif parses a raw EXIF block with rwcarlsen/goexif.
// Non-critical errors (a broken sub-IFD, for example) still yield the
// fields that were read.
func decodeGoexif(rawExif []byte) (*model.TagSet, error) {
	x, err := exif.Decode(bytes.NewReader(rawExif))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, err
	}

	w := &tagWalker{tags: model.NewTagSet()}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	return w.tags, nil
}

// tagWalker implements exif.Walker.
type tagWalker struct {
	tags *model.TagSet
}

// Walk converts one goexif field.
func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if pointerFieldNames[name] {
		return nil
	}
	w.tags.Add(&model.Tag{
		Group: groupForFieldName(name),
		ID:    tag.Id,
		Name:  string(name),
		Type:  typeNames[tag.Type],
		Count: tag.Count,
		Value: tiffValue(tag),
	})
	return nil
}

func groupForFieldName(name exif.FieldName) string {
	switch {
	case strings.HasPrefix(string(name), "GPS"):
		return model.GroupGPS
	case name == exif.InteroperabilityIndex:
		return model.GroupInterop
	case imageFieldNames[name]:
		return model.GroupImage
	}
	return model.GroupEXIF
}

// tiffValue converts a goexif tag value to a model.Tag value shape.
func tiffValue(tag *tiff.Tag) any {
	switch tag.Format() {
	case tiff.IntVal:
		values := make([]int64, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int64(i)
			if err != nil {
				break
			}
			values = append(values, v)
		}
		return values
	case tiff.RatVal:
		values := make([]model.Rational, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			values = append(values, model.Rational{Num: num, Den: den})
		}
		return values
	case tiff.StringVal:
		return decodeText(tag.Val)
	}
	return append([]byte(nil), tag.Val...)
}
