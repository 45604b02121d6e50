// Package imageinfo reads container-level image properties: format, pixel
// size, colour mode, declared density and animation timing.
//
// Pixel data is never decoded. Dimensions and colour model come from
// image.DecodeConfig with the standard decoders plus BMP, TIFF and WebP from
// golang.org/x/image. Density lives outside what DecodeConfig reports, so
// JPEG JFIF and PNG pHYs headers are read directly.
package imageinfo
