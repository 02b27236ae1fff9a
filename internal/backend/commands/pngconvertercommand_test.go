package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
)

func TestPngConverterCommand_Registered(t *testing.T) {
	if !commandstructure.DefaultRegistry.IsRegistered(PngConverterCommandName) {
		t.Fatalf("Expected %s to be registered", PngConverterCommandName)
	}
}

func TestNewPngConverterCommand_NegativeFallback(t *testing.T) {
	if _, err := NewPngConverterCommand(map[string]any{"svgFallbackWidth": -1}); err == nil {
		t.Fatal("Expected error for negative fallback size")
	}
}

func TestPngConverterCommand_PngPassesThrough(t *testing.T) {
	command, err := NewPngConverterCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	input := encodeTestPNG(t, 4, 3)

	result, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.Equal(result, input) {
		t.Error("Expected PNG input to be returned unchanged")
	}
}

func TestPngConverterCommand_ConvertsJPEG(t *testing.T) {
	command, err := NewPngConverterCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	result, err := command.Execute(encodeTestJPEG(t, 10, 6))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	img := decodeTestPNG(t, result)
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 6 {
		t.Errorf("Expected 10x6, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestPngConverterCommand_InvalidImage(t *testing.T) {
	command, err := NewPngConverterCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	if _, err := command.Execute([]byte("not a valid image")); err == nil {
		t.Error("Expected error for invalid image data, got nil")
	}
}

func TestPngConverterCommand_SVG(t *testing.T) {
	sized := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="20" height="10" stroke-width="3"><rect width="20" height="10" fill="#000"/></svg>`)
	unsized := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#000"/></svg>`)

	tests := []struct {
		name       string
		params     map[string]any
		input      []byte
		wantWidth  int
		wantHeight int
		wantErr    bool
	}{
		{name: "explicit size", params: map[string]any{}, input: sized, wantWidth: 20, wantHeight: 10},
		{name: "fallback size", params: map[string]any{"svgFallbackWidth": 8, "svgFallbackHeight": 8}, input: unsized, wantWidth: 8, wantHeight: 8},
		{name: "no size available", params: map[string]any{}, input: unsized, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewPngConverterCommand(tt.params)
			if err != nil {
				t.Fatalf("Failed to create command: %v", err)
			}
			result, err := command.Execute(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			img := decodeTestPNG(t, result)
			if img.Bounds().Dx() != tt.wantWidth || img.Bounds().Dy() != tt.wantHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, img.Bounds().Dx(), img.Bounds().Dy())
			}
		})
	}
}

func TestRenderSVGToPNG_InvalidSize(t *testing.T) {
	if _, err := RenderSVGToPNG([]byte(`<svg/>`), 0, 10); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestPngConverterCommand_RejectsOversizedImage(t *testing.T) {
	hugeSVG := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100000" height="100000"><rect width="10" height="10"/></svg>`)

	tests := []struct {
		name   string
		params map[string]any
		input  []byte
	}{
		{name: "png declared above default limit", params: map[string]any{}, input: encodeHeaderOnlyPNG(20000, 20000)},
		{name: "jpeg above custom limit", params: map[string]any{"maxPixels": 50}, input: encodeTestJPEG(t, 10, 6)},
		{name: "svg above default limit", params: map[string]any{}, input: hugeSVG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewPngConverterCommand(tt.params)
			if err != nil {
				t.Fatalf("Failed to create command: %v", err)
			}
			if _, err := command.Execute(tt.input); !errors.Is(err, commandstructure.ErrInvalidImage) {
				t.Fatalf("Expected ErrInvalidImage, got %v", err)
			}
		})
	}
}
