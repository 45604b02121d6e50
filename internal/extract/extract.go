package extract

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/imgmeta/internal/model"
)

// Unknown is printed for enumerated values missing from a label table.
const Unknown = "Unknown"

// NoteRedacted replaces the GPS section when location output is disabled.
const NoteRedacted = "redacted"

// options holds report building settings.
type options struct {
	hideGPS bool
}

// Option configures Build.
type Option func(*options)

// WithHideGPS replaces the GPS section with a redaction note, masks
// coordinates in privacy findings and drops GPS tags from the serialized
// tag list.
func WithHideGPS(hide bool) Option {
	return func(o *options) {
		o.hideGPS = hide
	}
}

// Build fills report.Sections and report.Findings from the report's
// properties and tags. Existing sections and findings are replaced.
//
// Without EXIF the camera, date, settings and GPS sections are omitted and
// Other Details only names the file.
func Build(report *model.ImageReport, opts ...Option) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	t := tagReader{tags: report.Tags}
	sections := []model.Section{imagePropertiesSection(report, t)}

	if report.HasEXIF() {
		gps := gpsSection(t)
		if o.hideGPS {
			gps = model.Section{Name: model.SectionGPS, Note: NoteRedacted}
			report.TagList = withoutGroup(report.TagList, model.GroupGPS)
		}
		sections = append(sections,
			cameraSection(t),
			dateTimeSection(t),
			settingsSection(t),
			gps,
			otherSection(report, t),
		)
	} else {
		other := model.Section{Name: model.SectionOther}
		other.Add("File Name", report.FileName)
		other.Add("File Path", report.Path)
		sections = append(sections, other)
	}

	report.Sections = sections
	report.Findings = Findings(report.Tags, o.hideGPS)
}

// withoutGroup returns tags minus those in group. The input is not modified.
func withoutGroup(tags []*model.Tag, group string) []*model.Tag {
	out := make([]*model.Tag, 0, len(tags))
	for _, tag := range tags {
		if tag.Group != group {
			out = append(out, tag)
		}
	}
	return out
}

func imagePropertiesSection(report *model.ImageReport, t tagReader) model.Section {
	s := model.Section{Name: model.SectionImageProperties}
	props := report.Properties
	if props == nil {
		props = &model.ImageProperties{}
	}

	s.Add("Format", orNA(props.Format))
	if props.Width > 0 && props.Height > 0 {
		s.Add("Size", fmt.Sprintf("%d x %d pixels", props.Width, props.Height))
	} else {
		s.Add("Size", model.NotAvailable)
	}
	s.Add("Color Mode", orNA(props.ColorMode))
	s.Add("File Size", fileSize(report.FileSize))
	s.Add("DPI", dpi(props.DPI, t))
	if props.Duration > 0 {
		s.Add("Duration", fmt.Sprintf("%d ms", props.Duration.Milliseconds()))
	} else {
		s.Add("Duration", model.NotAvailable)
	}
	if props.Frames > 1 {
		s.Add("Frames", strconv.Itoa(props.Frames))
	}
	return s
}

func cameraSection(t tagReader) model.Section {
	s := model.Section{Name: model.SectionCamera}
	s.Add("Make", t.text("Image Make"))
	s.Add("Model", t.text("Image Model"))
	s.Add("Software", t.text("Image Software"))
	s.Add("Lens Model", t.text("EXIF LensModel"))
	s.Add("Camera Serial Number", t.text("EXIF BodySerialNumber", "EXIF CameraSerialNumber", "Image CameraSerialNumber"))
	s.Add("Date of Manufacture", t.text("EXIF DateTimeOriginal"))
	return s
}

func dateTimeSection(t tagReader) model.Section {
	s := model.Section{Name: model.SectionDateTime}
	s.Add("Taken", t.text("EXIF DateTimeOriginal"))
	s.Add("Digitized", t.text("EXIF DateTimeDigitized"))
	s.Add("DateTime", t.text("Image DateTime"))
	s.Add("Time Zone Offset", t.text("EXIF OffsetTimeOriginal"))
	return s
}

func settingsSection(t tagReader) model.Section {
	s := model.Section{Name: model.SectionSettings}
	s.Add("Exposure Time", t.fraction("EXIF ExposureTime"))
	s.Add("F-Number", t.fraction("EXIF FNumber"))
	s.Add("ISO Speed", t.text("EXIF ISOSpeedRatings", "EXIF PhotographicSensitivity"))
	s.Add("Focal Length", withUnit(t.fraction("EXIF FocalLength"), "mm"))
	s.Add("Focal Length (35mm equivalent)", withUnit(t.text("EXIF FocalLengthIn35mmFilm"), "mm"))
	s.Add("Exposure Mode", t.label(exposureModes, Unknown, "EXIF ExposureMode"))
	s.Add("White Balance", t.label(whiteBalanceModes, Unknown, "EXIF WhiteBalance"))
	s.Add("Flash", t.flash())
	s.Add("Metering Mode", t.label(meteringModes, Unknown, "EXIF MeteringMode"))
	s.Add("Exposure Program", t.label(exposurePrograms, Unknown, "EXIF ExposureProgram"))
	s.Add("Brightness Value", t.fraction("EXIF BrightnessValue"))
	s.Add("Exposure Bias", t.fraction("EXIF ExposureBiasValue"))
	s.Add("Max Aperture Value", t.fraction("EXIF MaxApertureValue"))
	s.Add("Digital Zoom Ratio", t.fraction("EXIF DigitalZoomRatio"))
	s.Add("Scene Capture Type", t.label(sceneCaptureTypes, Unknown, "EXIF SceneCaptureType"))
	s.Add("Shutter Speed Value", t.fraction("EXIF ShutterSpeedValue"))
	s.Add("Aperture Value", t.fraction("EXIF ApertureValue"))
	s.Add("Color Space", t.label(colorSpaces, model.NotAvailable, "EXIF ColorSpace"))
	s.Add("Focus Mode", t.label(focusModes, Unknown, "EXIF FocusMode"))
	s.Add("Shooting Mode", t.label(shootingModes, Unknown, "EXIF ShootingMode"))
	s.Add("Noise Reduction", t.noiseReduction())
	s.Add("Subject Area", t.list("EXIF SubjectArea"))
	return s
}

func otherSection(report *model.ImageReport, t tagReader) model.Section {
	s := model.Section{Name: model.SectionOther}
	s.Add("Orientation", t.label(orientations, model.NotAvailable, "Image Orientation"))
	s.Add("YCbCr Positioning", t.label(ycbcrPositions, Unknown, "Image YCbCrPositioning"))
	s.Add("Resolution", fmt.Sprintf("%s x %s %s",
		t.fraction("Image XResolution"),
		t.fraction("Image YResolution"),
		t.label(resolutionUnits, Unknown, "Image ResolutionUnit")))
	s.Add("Unique Image ID", t.text("EXIF ImageUniqueID"))
	s.Add("Exif Version", t.text("EXIF ExifVersion"))
	s.Add("Compression", t.compression())
	s.Add("Image Width", t.text("EXIF PixelXDimension", "EXIF ExifImageWidth"))
	s.Add("Image Length", t.text("EXIF PixelYDimension", "EXIF ExifImageLength"))
	s.Add("Subject Distance", t.fraction("EXIF SubjectDistance"))
	s.Add("Metering Mode", t.label(meteringModes, Unknown, "EXIF MeteringMode"))
	s.Add("File Name", report.FileName)
	s.Add("File Path", report.Path)
	return s
}

// fileSize prints the exact byte count followed by a human form.
func fileSize(n int64) string {
	if n < 0 {
		return model.NotAvailable
	}
	return fmt.Sprintf("%d bytes (%s)", n, humanize.Bytes(uint64(n)))
}

// dpi prints the container density, falling back to the EXIF resolution
// when it is expressed in inches or centimetres.
func dpi(d *model.DPI, t tagReader) string {
	if d != nil {
		return formatDPI(d.X, d.Y)
	}
	x, okX := t.floatValue("Image XResolution")
	y, okY := t.floatValue("Image YResolution")
	unit, okUnit := t.intValue("Image ResolutionUnit")
	if !okX || !okY || !okUnit {
		return model.NotAvailable
	}
	switch unit {
	case 2:
		return formatDPI(x, y)
	case 3:
		return formatDPI(x*2.54, y*2.54)
	}
	return model.NotAvailable
}

func formatDPI(x, y float64) string {
	return formatFloat(x) + " x " + formatFloat(y)
}

// formatFloat prints v with at most two decimals and no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func withUnit(value, unit string) string {
	if value == model.NotAvailable {
		return value
	}
	return value + unit
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
