package commands

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

const MaxDimensionCommandName = "MaxDimensionCommand"

// MaxDimensionCommand downscales images whose longer edge exceeds maxEdge,
// preserving the aspect ratio. Smaller images are returned unchanged.
// Images above maxPixels are rejected before decoding.
type MaxDimensionCommand struct {
	maxEdge   int
	maxPixels int
}

func NewMaxDimensionCommand(params map[string]any) (commandstructure.Command, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"maxEdge"}); err != nil {
		return nil, err
	}
	maxEdge := commandstructure.GetIntParam(params, "maxEdge", 0)
	if maxEdge <= 0 {
		return nil, fmt.Errorf("maxEdge must be positive, got %d", maxEdge)
	}
	maxPixels, err := maxPixelsParam(params)
	if err != nil {
		return nil, err
	}
	return &MaxDimensionCommand{maxEdge: maxEdge, maxPixels: maxPixels}, nil
}

func (c *MaxDimensionCommand) Name() string {
	return MaxDimensionCommandName
}

func (c *MaxDimensionCommand) Execute(imageData []byte) ([]byte, error) {
	config, _, err := decodeConfigWithin(imageData, c.maxPixels)
	if err != nil {
		return nil, err
	}
	targetWidth, targetHeight, scale := fitWithin(config.Width, config.Height, c.maxEdge)
	if !scale {
		return imageData, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", commandstructure.ErrInvalidImage, err)
	}
	slog.Debug("MaxDimensionCommand: downscaling",
		"original_width", config.Width,
		"original_height", config.Height,
		"target_width", targetWidth,
		"target_height", targetHeight)

	target := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(target, target.Bounds(), img, img.Bounds(), draw.Src, nil)

	out, err := encodePNG(target)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scaled image: %w", err)
	}
	return out, nil
}

// fitWithin returns the size of width x height scaled so that neither edge exceeds maxEdge.
func fitWithin(width, height, maxEdge int) (int, int, bool) {
	if width <= maxEdge && height <= maxEdge {
		return width, height, false
	}
	if width >= height {
		return maxEdge, max(1, height*maxEdge/width), true
	}
	return max(1, width*maxEdge/height), maxEdge, true
}

func init() {
	if err := commandstructure.DefaultRegistry.Register(MaxDimensionCommandName, NewMaxDimensionCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", MaxDimensionCommandName, err))
	}
}
