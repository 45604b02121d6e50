// Package extract turns decoded tags and image properties into the
// printable report.
//
// The report is a fixed list of sections, each a fixed list of fields, so
// that two files always print the same keys in the same order. Values the
// file does not carry print as "N/A"; enumerated values outside the known
// label tables print as "Unknown".
//
// The package also flags tags that reveal who took a photo, where, or with
// which device, and grades them by severity.
package extract
