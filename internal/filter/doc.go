// Package filter selects image reports with boolean expressions such as
//
//	Make == "Canon" && FNumber < 4
//	HasGPS && Width >= 4000
//	[EXIF LensModel] =~ "EF24"
//
// Expressions are evaluated by github.com/Knetic/govaluate. Tag names can be
// used bare, in which case Image tags shadow EXIF tags which shadow GPS
// tags, or as a full bracketed key. Missing tags evaluate to nil.
package filter
