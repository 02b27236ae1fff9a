package inpaint

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MinMaskEdge is the smallest mask edge the inpainting API accepts.
	MinMaskEdge = 64
	// MaxPixels is the largest pixel count the inpainting API accepts.
	MaxPixels = 9_437_184
)

var ErrImageTooLarge = errors.New("image exceeds the inpainting pixel limit")

// CreateFullWhiteMask returns an opaque white RGBA PNG of max(width,64) x max(height,64),
// where width and height are those of the encoded input image.
// A full white mask marks the whole canvas as editable.
func CreateFullWhiteMask(original []byte) ([]byte, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("failed to read image dimensions: %w", err)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("failed to read image dimensions: got %dx%d", config.Width, config.Height)
	}

	width := max(config.Width, MinMaskEdge)
	height := max(config.Height, MinMaskEdge)
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	mask := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(mask, mask.Bounds(), &image.Uniform{C: color.RGBA{R: 255, G: 255, B: 255, A: 255}}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, mask); err != nil {
		return nil, fmt.Errorf("failed to encode mask: %w", err)
	}
	return buf.Bytes(), nil
}
