package model

import (
	"path/filepath"
	"time"
)

// Section names in the order they are printed.
const (
	SectionImageProperties = "Image Properties"
	SectionCamera          = "Camera Information"
	SectionDateTime        = "Date and Time"
	SectionSettings        = "Camera Settings"
	SectionGPS             = "GPS Information"
	SectionOther           = "Other Details"
)

// NotAvailable is printed for values the image does not carry.
const NotAvailable = "N/A"

// ImageProperties holds the container-level properties of an image,
// independent of any EXIF data.
type ImageProperties struct {
	// Format is the upper-case format name, e.g. "JPEG" or "PNG".
	Format string `json:"format"`

	// Width and Height are the pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ColorMode is the colour mode, e.g. "RGB", "L" or "P".
	ColorMode string `json:"color_mode"`

	// DPI is the horizontal and vertical resolution in dots per inch.
	// Nil when the container does not declare a density.
	DPI *DPI `json:"dpi,omitempty"`

	// Duration is the display time of the first frame of an animation.
	// Zero for still images.
	Duration time.Duration `json:"duration,omitempty"`

	// Frames is the number of frames; 1 for still images.
	Frames int `json:"frames,omitempty"`
}

// DPI is a resolution pair in dots per inch.
type DPI struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Field is one printable key/value line of a section.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Section is a named, ordered group of fields.
// A section with a Note and no fields prints the note on its own line,
// which is how "N/A" or "redacted" GPS sections are rendered.
type Section struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields,omitempty"`
	Note   string  `json:"note,omitempty"`
}

// Add appends a field to the section.
func (s *Section) Add(key, value string) {
	s.Fields = append(s.Fields, Field{Key: key, Value: value})
}

// Get returns the value of the field named key.
func (s *Section) Get(key string) (string, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// ImageReport is the result of inspecting a single image file.
//
// Design decision: Like the rest of the model package this is a flat struct
// so it can be stored as one JSON document in the history database.
type ImageReport struct {
	// Path is the path the user passed on the command line.
	Path string `json:"path"`

	// FileName is the base name of Path.
	FileName string `json:"file_name"`

	// FileSize is the size of the file in bytes.
	FileSize int64 `json:"file_size"`

	// Hash is the hex SHA3-256 of the file contents.
	Hash string `json:"hash,omitempty"`

	// DateExtracted is when the file was inspected.
	DateExtracted time.Time `json:"date_extracted"`

	// Decoder names the EXIF decoder that produced Tags.
	Decoder string `json:"decoder,omitempty"`

	// Properties holds format-level image properties.
	Properties *ImageProperties `json:"properties,omitempty"`

	// Tags holds every EXIF tag found. Nil when the image has no EXIF.
	Tags *TagSet `json:"-"`

	// TagList is the serializable form of Tags.
	TagList []*Tag `json:"tags,omitempty"`

	// Sections is the printable report.
	Sections []Section `json:"sections"`

	// Findings lists privacy-relevant metadata.
	Findings []Finding `json:"findings,omitempty"`

	// Warnings collects non-fatal problems such as a failed EXIF parse.
	Warnings []string `json:"warnings,omitempty"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps,omitempty"`

	// Error holds the error that stopped inspection, if any.
	Error error `json:"-"`

	// ErrorMessage is the serializable form of Error.
	ErrorMessage string `json:"error,omitempty"`

	// Data is the raw file contents, kept only while the pipeline runs.
	Data []byte `json:"-"`
}

// NewImageReport creates an empty report for path.
func NewImageReport(path string) *ImageReport {
	return &ImageReport{
		Path:          path,
		FileName:      filepath.Base(path),
		DateExtracted: time.Now(),
	}
}

// HasEXIF reports whether any EXIF tag was decoded.
func (r *ImageReport) HasEXIF() bool {
	return r.Tags.Len() > 0
}

// Section returns the section called name, or nil.
func (r *ImageReport) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// SetTags stores tags and refreshes the serializable tag list.
func (r *ImageReport) SetTags(tags *TagSet) {
	r.Tags = tags
	r.TagList = tags.All()
}

// AddWarning records a non-fatal problem.
func (r *ImageReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Failed reports whether inspection stopped with an error.
func (r *ImageReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
