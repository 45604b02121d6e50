// Package testimage synthesises image files for tests.
//
// JPEG, PNG and GIF bodies come from the standard library encoders; EXIF
// blocks are laid out by hand as little-endian TIFF so that tests control
// every tag value without checking binary fixtures into the repository.
package testimage
