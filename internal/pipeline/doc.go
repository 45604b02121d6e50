// Package pipeline runs the inspection of an image file as a sequence of
// steps: load the file, read container properties, decode EXIF tags and
// build the printable sections.
//
// Design decision: Each stage is a Step so that callers can assemble
// shorter pipelines (tests, or a properties-only run) and so that logging
// and error recording happen in one place. BatchProcessor runs one fresh
// pipeline per file with bounded concurrency using errgroup.
package pipeline
