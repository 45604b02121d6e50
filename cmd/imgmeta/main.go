// Package main provides the entry point for the imgmeta CLI.
//
// imgmeta prints the basic properties and the embedded EXIF metadata of
// image files, grouped by category, and flags metadata that discloses a
// location, a device or a person.
//
// Usage:
//
//	imgmeta inspect <file>...
//	imgmeta history <file>
//
// See --help for all available options.
package main

// main is the entry point for imgmeta.
func main() {
	Execute()
}
