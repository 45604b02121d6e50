// Package model defines the core data structures used throughout imgmeta.
//
// This package contains the following main types:
//   - Tag and TagSet: EXIF entries normalised away from any decoder library
//   - ImageProperties: format, dimensions and colour mode of the image
//   - Section and Field: the ordered, printable categories of a report
//   - ImageReport: the result of inspecting one file
//   - Finding: a privacy-relevant piece of metadata
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The metadata, extract, report and database packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
