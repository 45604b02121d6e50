package model

import (
	"strconv"
	"strings"
)

// Tag groups name the IFD a tag was read from.
// Keys are built as "<group> <name>", e.g. "EXIF FNumber".
const (
	GroupImage     = "Image"
	GroupThumbnail = "Thumbnail"
	GroupEXIF      = "EXIF"
	GroupGPS       = "GPS"
	GroupInterop   = "Interoperability"
)

// Tag is a single EXIF entry.
//
// Value holds one of:
//   - string for ASCII tags
//   - []int64 for BYTE, SHORT, LONG and their signed variants
//   - []Rational for RATIONAL and SRATIONAL
//   - []byte for UNDEFINED
//
// Decoders are responsible for normalising library-specific values into
// these shapes so the rest of the program is decoder agnostic.
type Tag struct {
	// Group is the IFD group (Image, EXIF, GPS, ...).
	Group string `json:"group"`

	// ID is the numeric TIFF tag identifier.
	ID uint16 `json:"id"`

	// Name is the standard tag name, e.g. "DateTimeOriginal".
	Name string `json:"name"`

	// Type is the TIFF type name, e.g. "SHORT" or "RATIONAL".
	Type string `json:"type"`

	// Count is the number of values stored in the tag.
	Count uint32 `json:"count"`

	// Value is the normalised value. It is not serialized; Formatted is.
	Value any `json:"-"`

	// Formatted is the printable form of Value.
	Formatted string `json:"value"`
}

// Key returns the lookup key of the tag.
func (t *Tag) Key() string {
	return t.Group + " " + t.Name
}

// Int returns the i-th value as an integer.
// Rationals are accepted when they divide evenly.
func (t *Tag) Int(i int) (int64, bool) {
	switch v := t.Value.(type) {
	case []int64:
		if i < len(v) {
			return v[i], true
		}
	case []Rational:
		if i < len(v) && v[i].Den != 0 && v[i].Num%v[i].Den == 0 {
			return v[i].Num / v[i].Den, true
		}
	case []byte:
		if i < len(v) {
			return int64(v[i]), true
		}
	}
	return 0, false
}

// Rational returns the i-th value as a rational.
// Integers are promoted to n/1.
func (t *Tag) Rational(i int) (Rational, bool) {
	switch v := t.Value.(type) {
	case []Rational:
		if i < len(v) {
			return v[i], true
		}
	case []int64:
		if i < len(v) {
			return Rational{Num: v[i], Den: 1}, true
		}
	}
	return Rational{}, false
}

// Float returns the i-th value as a float64.
func (t *Tag) Float(i int) (float64, bool) {
	if r, ok := t.Rational(i); ok {
		return r.Float()
	}
	return 0, false
}

// Len returns the number of values held by the tag.
func (t *Tag) Len() int {
	switch v := t.Value.(type) {
	case string:
		return 1
	case []int64:
		return len(v)
	case []Rational:
		return len(v)
	case []byte:
		return len(v)
	}
	return 0
}

// String returns the printable value of the tag.
// A single value prints bare; multiple values print as "[a, b, c]".
func (t *Tag) String() string {
	switch v := t.Value.(type) {
	case string:
		return v
	case []int64:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return joinValues(parts)
	case []Rational:
		parts := make([]string, len(v))
		for i, r := range v {
			parts[i] = r.String()
		}
		return joinValues(parts)
	case []byte:
		if isPrintable(v) {
			return strings.TrimRight(string(v), "\x00 ")
		}
		parts := make([]string, len(v))
		for i, b := range v {
			parts[i] = strconv.Itoa(int(b))
		}
		return joinValues(parts)
	}
	return t.Formatted
}

func joinValues(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// isPrintable reports whether b is non-empty printable ASCII, allowing
// trailing NUL padding.
func isPrintable(b []byte) bool {
	trimmed := strings.TrimRight(string(b), "\x00")
	if trimmed == "" {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < 0x20 || trimmed[i] > 0x7e {
			return false
		}
	}
	return true
}

// TagSet is an ordered collection of tags indexed by Key.
// When two tags share a key the first one added wins; decoders walk IFD0
// before IFD1, so primary image tags shadow thumbnail tags.
type TagSet struct {
	tags  []*Tag
	index map[string]*Tag
}

// NewTagSet creates an empty TagSet.
func NewTagSet() *TagSet {
	return &TagSet{index: make(map[string]*Tag)}
}

// Add inserts a tag. It reports false when the key was already present.
func (s *TagSet) Add(tag *Tag) bool {
	if tag.Formatted == "" {
		tag.Formatted = tag.String()
	}
	key := tag.Key()
	if _, exists := s.index[key]; exists {
		return false
	}
	s.index[key] = tag
	s.tags = append(s.tags, tag)
	return true
}

// Get returns the tag stored under key.
func (s *TagSet) Get(key string) (*Tag, bool) {
	if s == nil {
		return nil, false
	}
	tag, ok := s.index[key]
	return tag, ok
}

// Lookup returns the first tag present among keys.
func (s *TagSet) Lookup(keys ...string) (*Tag, bool) {
	for _, key := range keys {
		if tag, ok := s.Get(key); ok {
			return tag, true
		}
	}
	return nil, false
}

// HasGroup reports whether any tag belongs to group.
func (s *TagSet) HasGroup(group string) bool {
	if s == nil {
		return false
	}
	for _, tag := range s.tags {
		if tag.Group == group {
			return true
		}
	}
	return false
}

// Len returns the number of tags.
func (s *TagSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tags)
}

// All returns the tags in insertion order.
func (s *TagSet) All() []*Tag {
	if s == nil {
		return nil
	}
	return s.tags
}
