package imageinfo

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/nao1215/imgmeta/internal/model"
)

// JPEG markers used while walking segments.
const (
	markerSOI  = 0xD8
	markerAPP0 = 0xE0
	markerSOS  = 0xDA
	markerEOI  = 0xD9
)

const (
	inchesPerMetre = 0.0254
	cmPerInch      = 2.54
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// jfifDensity returns the density declared by a JFIF APP0 segment.
// Only headers before the first scan are examined. Nil means no JFIF
// segment or an aspect-ratio-only declaration.
func jfifDensity(data []byte) *model.DPI {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil
	}

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return nil
		}
		marker := data[pos+1]
		// Fill bytes.
		if marker == 0xFF {
			pos++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return nil
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			return nil
		}
		payload := data[pos+4 : pos+2+length]
		if marker == markerAPP0 && len(payload) >= 12 && bytes.HasPrefix(payload, []byte("JFIF\x00")) {
			return jfifUnits(payload[7], binary.BigEndian.Uint16(payload[8:]), binary.BigEndian.Uint16(payload[10:]))
		}
		pos += 2 + length
	}
	return nil
}

func jfifUnits(unit byte, x, y uint16) *model.DPI {
	switch unit {
	case 1:
		return &model.DPI{X: float64(x), Y: float64(y)}
	case 2:
		return &model.DPI{X: round2(float64(x) * cmPerInch), Y: round2(float64(y) * cmPerInch)}
	}
	return nil
}

// pngDensity returns the density declared by a pHYs chunk in metres.
func pngDensity(data []byte) *model.DPI {
	var found *model.DPI
	walkPNGChunks(data, func(typ string, body []byte) bool {
		switch typ {
		case "pHYs":
			if len(body) == 9 && body[8] == 1 {
				x := binary.BigEndian.Uint32(body[0:])
				y := binary.BigEndian.Uint32(body[4:])
				found = &model.DPI{X: round2(float64(x) * inchesPerMetre), Y: round2(float64(y) * inchesPerMetre)}
			}
			return false
		case "IDAT":
			return false
		}
		return true
	})
	return found
}

// pngColorMode derives the colour mode from the IHDR colour type, which
// distinguishes RGB from RGBA where image.Config does not.
func pngColorMode(data []byte) (string, bool) {
	mode, ok := "", false
	walkPNGChunks(data, func(typ string, body []byte) bool {
		if typ != "IHDR" || len(body) < 10 {
			return false
		}
		depth, colorType := body[8], body[9]
		ok = true
		switch colorType {
		case 0:
			mode = "L"
			if depth == 16 {
				mode = "I;16"
			}
		case 2:
			mode = "RGB"
		case 3:
			mode = "P"
		case 4:
			mode = "LA"
		case 6:
			mode = "RGBA"
		default:
			ok = false
		}
		return false
	})
	return mode, ok
}

// walkPNGChunks calls fn for each chunk until fn returns false or the data
// ends. CRCs are not verified.
func walkPNGChunks(data []byte, fn func(typ string, body []byte) bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + length
		if length < 0 || end+4 > len(data) {
			return
		}
		if !fn(typ, data[pos+8:end]) {
			return
		}
		pos = end + 4
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
