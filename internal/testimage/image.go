package testimage

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
)

// JPEGOptions controls JPEG synthesis.
type JPEGOptions struct {
	Width, Height int

	// EXIF, when non-nil, is embedded as an APP1 "Exif" segment.
	EXIF *EXIF

	// JFIFDensity, when non-zero, adds a JFIF APP0 segment with the given
	// density in dots per inch.
	JFIFDensity uint16

	// Gray encodes a single-channel image.
	Gray bool
}

// JPEG returns an encoded JPEG built from opts.
func JPEG(opts JPEGOptions) []byte {
	if opts.Width == 0 {
		opts.Width = 16
	}
	if opts.Height == 0 {
		opts.Height = 8
	}

	var img image.Image
	if opts.Gray {
		g := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
		for i := range g.Pix {
			g.Pix[i] = uint8(i)
		}
		img = g
	} else {
		img = filled(opts.Width, opts.Height)
	}

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 75}); err != nil {
		panic(err)
	}
	raw := encoded.Bytes()

	var out bytes.Buffer
	out.Write(raw[:2]) // SOI
	if opts.JFIFDensity != 0 {
		out.Write(jfifSegment(opts.JFIFDensity))
	}
	if opts.EXIF != nil {
		out.Write(exifSegment(opts.EXIF.TIFF()))
	}
	out.Write(raw[2:])
	return out.Bytes()
}

func jfifSegment(dpi uint16) []byte {
	payload := []byte{'J', 'F', 'I', 'F', 0, 1, 1, 1}
	payload = binary.BigEndian.AppendUint16(payload, dpi)
	payload = binary.BigEndian.AppendUint16(payload, dpi)
	payload = append(payload, 0, 0) // no thumbnail
	return segment(0xE0, payload)
}

func exifSegment(tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)
	return segment(0xE1, payload)
}

func segment(marker byte, payload []byte) []byte {
	seg := []byte{0xFF, marker}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	return append(seg, payload...)
}

// PNGOptions controls PNG synthesis.
type PNGOptions struct {
	Width, Height int

	// PixelsPerMeter, when non-zero, adds a pHYs chunk.
	PixelsPerMeter uint32

	// Paletted encodes a palette image.
	Paletted bool
}

// PNG returns an encoded PNG built from opts.
func PNG(opts PNGOptions) []byte {
	if opts.Width == 0 {
		opts.Width = 10
	}
	if opts.Height == 0 {
		opts.Height = 20
	}

	var img image.Image = filled(opts.Width, opts.Height)
	if opts.Paletted {
		p := image.NewPaletted(image.Rect(0, 0, opts.Width, opts.Height), palette.Plan9)
		img = p
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		panic(err)
	}
	raw := encoded.Bytes()
	if opts.PixelsPerMeter == 0 {
		return raw
	}

	// Insert pHYs right after the IHDR chunk: 8 byte signature + 25 byte IHDR.
	const ihdrEnd = 8 + 25
	var chunk []byte
	data := binary.BigEndian.AppendUint32(nil, opts.PixelsPerMeter)
	data = binary.BigEndian.AppendUint32(data, opts.PixelsPerMeter)
	data = append(data, 1) // unit: metre
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(data)))
	typed := append([]byte("pHYs"), data...)
	chunk = append(chunk, typed...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(typed))

	out := append([]byte(nil), raw[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, raw[ihdrEnd:]...)
}

// GIF returns an animated GIF with the given number of frames and a
// per-frame delay in hundredths of a second.
func GIF(frames, delay int) []byte {
	anim := &gif.GIF{}
	for i := 0; i < frames; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.WebSafe)
		frame.SetColorIndex(i%4, i%4, uint8(i))
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func filled(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}
