package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"regexp"
	"strconv"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const svgSniffLength = 4096

var (
	svgTagPattern  = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	svgSizePattern = regexp.MustCompile(`(?i)\s(width|height)\s*=\s*["']\s*([0-9]+)`)
)

// isSVG reports whether the first bytes of data contain an <svg> element.
func isSVG(data []byte) bool {
	head := data
	if len(head) > svgSniffLength {
		head = head[:svgSniffLength]
	}
	return svgTagPattern.Match(head)
}

// svgExplicitSize returns the integer width and height attributes of the root element.
// A viewBox alone is not treated as a pixel size.
func svgExplicitSize(data []byte) (int, int, bool) {
	tag := svgTagPattern.Find(data)
	if tag == nil {
		return 0, 0, false
	}
	width, height := 0, 0
	for _, match := range svgSizePattern.FindAllSubmatch(tag, -1) {
		value, err := strconv.Atoi(string(match[2]))
		if err != nil || value <= 0 {
			continue
		}
		switch string(bytes.ToLower(match[1])) {
		case "width":
			width = value
		case "height":
			height = value
		}
	}
	return width, height, width > 0 && height > 0
}

// RenderSVGToPNG rasterizes an SVG document onto a white canvas of the given size.
func RenderSVGToPNG(svgData []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	out, err := encodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return out, nil
}
