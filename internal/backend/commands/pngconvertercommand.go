package commands

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
)

const PngConverterCommandName = "PngConverterCommand"

// PngConverterCommand re-encodes uploads as PNG. PNG input passes through untouched.
type PngConverterCommand struct {
	svgFallbackWidth  int
	svgFallbackHeight int
	maxPixels         int
}

// NewPngConverterCommand accepts optional svgFallbackWidth/svgFallbackHeight,
// used for SVG documents that carry no explicit size, and maxPixels.
func NewPngConverterCommand(params map[string]any) (commandstructure.Command, error) {
	w := commandstructure.GetIntParam(params, "svgFallbackWidth", 0)
	h := commandstructure.GetIntParam(params, "svgFallbackHeight", 0)
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("svg fallback size must not be negative, got %dx%d", w, h)
	}
	maxPixels, err := maxPixelsParam(params)
	if err != nil {
		return nil, err
	}
	return &PngConverterCommand{svgFallbackWidth: w, svgFallbackHeight: h, maxPixels: maxPixels}, nil
}

func (c *PngConverterCommand) Name() string {
	return PngConverterCommandName
}

func (c *PngConverterCommand) Execute(imageData []byte) ([]byte, error) {
	if isSVG(imageData) {
		return c.convertSVG(imageData)
	}
	if _, _, err := decodeConfigWithin(imageData, c.maxPixels); err != nil {
		return nil, err
	}
	if isPNG(imageData) {
		return imageData, nil
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", commandstructure.ErrInvalidImage, err)
	}
	slog.Debug("PngConverterCommand: converting raster image",
		"source_format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	out, err := encodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return out, nil
}

func (c *PngConverterCommand) convertSVG(svgData []byte) ([]byte, error) {
	w, h, ok := svgExplicitSize(svgData)
	if !ok {
		w, h = c.svgFallbackWidth, c.svgFallbackHeight
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: SVG has no explicit size and no fallback size is configured", commandstructure.ErrInvalidImage)
	}
	if err := checkPixelLimit(w, h, c.maxPixels); err != nil {
		return nil, err
	}
	return RenderSVGToPNG(svgData, w, h)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register(PngConverterCommandName, NewPngConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", PngConverterCommandName, err))
	}
}
