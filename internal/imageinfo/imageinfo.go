package imageinfo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"time"

	// Registered decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go4.org/media/heif"

	"github.com/nao1215/imgmeta/internal/metadata"
	"github.com/nao1215/imgmeta/internal/model"
)

// Read returns the properties of the encoded image in data.
func Read(data []byte) (model.ImageProperties, error) {
	if metadata.IsHEIF(data) {
		return readHEIF(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return model.ImageProperties{}, ErrUnknownFormat
		}
		return model.ImageProperties{}, fmt.Errorf("failed to read image header: %w", err)
	}

	props := model.ImageProperties{
		Format:    strings.ToUpper(format),
		Width:     cfg.Width,
		Height:    cfg.Height,
		ColorMode: ColorMode(cfg.ColorModel),
		Frames:    1,
	}

	switch format {
	case "jpeg":
		props.DPI = jfifDensity(data)
	case "png":
		props.DPI = pngDensity(data)
		if mode, ok := pngColorMode(data); ok {
			props.ColorMode = mode
		}
	case "gif":
		readGIFTiming(data, &props)
	}
	return props, nil
}

// readHEIF reads the primary item extents of a HEIF container.
func readHEIF(data []byte) (model.ImageProperties, error) {
	props := model.ImageProperties{Format: "HEIF", ColorMode: "YCbCr", Frames: 1}

	item, err := heif.Open(bytes.NewReader(data)).PrimaryItem()
	if err != nil {
		return props, fmt.Errorf("failed to read HEIF primary item: %w", err)
	}
	if w, h, ok := item.VisualDimensions(); ok {
		props.Width, props.Height = w, h
	}
	return props, nil
}

// readGIFTiming fills frame count and the first frame delay.
// A decode failure leaves the still-image defaults in place.
func readGIFTiming(data []byte, props *model.ImageProperties) {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil || len(anim.Image) == 0 {
		return
	}
	props.Frames = len(anim.Image)
	if len(anim.Delay) > 0 {
		props.Duration = time.Duration(anim.Delay[0]) * 10 * time.Millisecond
	}
}

// ColorMode names a colour model using the common imaging vocabulary.
func ColorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	case color.RGBAModel, color.NRGBAModel:
		return "RGBA"
	case color.RGBA64Model, color.NRGBA64Model:
		return "RGBA;16"
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "RGB"
	case color.AlphaModel, color.Alpha16Model:
		return "A"
	}
	return "Unknown"
}
