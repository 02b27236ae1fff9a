package commands

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
)

// DefaultMaxPixels caps the decoded size of an upload at 40 megapixels.
const DefaultMaxPixels = 40_000_000

// maxPixelsParam reads the optional maxPixels parameter.
func maxPixelsParam(params map[string]any) (int, error) {
	maxPixels := commandstructure.GetIntParam(params, "maxPixels", DefaultMaxPixels)
	if maxPixels <= 0 {
		return 0, fmt.Errorf("maxPixels must be positive, got %d", maxPixels)
	}
	return maxPixels, nil
}

// checkPixelLimit rejects sizes whose pixel count exceeds maxPixels.
func checkPixelLimit(width, height, maxPixels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image has no pixels (%dx%d)", commandstructure.ErrInvalidImage, width, height)
	}
	if int64(width)*int64(height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds the limit of %d pixels", commandstructure.ErrInvalidImage, width, height, maxPixels)
	}
	return nil
}

// decodeConfigWithin reads the image header and enforces the pixel limit
// before any pixel data is decoded.
func decodeConfigWithin(imageData []byte, maxPixels int) (image.Config, string, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: failed to read image header: %v", commandstructure.ErrInvalidImage, err)
	}
	if err := checkPixelLimit(config.Width, config.Height, maxPixels); err != nil {
		return image.Config{}, "", err
	}
	return config, format, nil
}
