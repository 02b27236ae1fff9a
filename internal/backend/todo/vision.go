package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/jo-hoe/cozymind/internal/backend/metrics"
)

const (
	DefaultVisionModel = "gemini-2.5-flash"
	maxVisionItems     = 8
	metricsService     = "genai_todo"
)

const visionPrompt = `You are looking at a photo of a messy desk.
List concrete clean-up tasks for the desk surface only.
Do not mention laundry, dishes, floors or other rooms.
Answer with a JSON array of objects with the keys "task" and "reason", at most 8 entries.`

var ErrMissingAPIKey = errors.New("genai api key not configured")

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// VisionGenerator asks a Gemini model to read the image.
// It never fails: any error falls back to the static tasks.
type VisionGenerator struct {
	models contentGenerator
	model  string
}

func NewVisionGenerator(ctx context.Context, apiKey, model string) (*VisionGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newVisionGenerator(client.Models, model), nil
}

func newVisionGenerator(models contentGenerator, model string) *VisionGenerator {
	if model == "" {
		model = DefaultVisionModel
	}
	return &VisionGenerator{models: models, model: model}
}

func (g *VisionGenerator) Generate(ctx context.Context, image []byte) ([]Item, error) {
	items, err := g.analyze(ctx, image)
	if err != nil {
		slog.Warn("vision todo generation failed, using defaults", "error", err)
		return DefaultItems(), nil
	}
	if len(items) == 0 {
		slog.Warn("vision todo generation returned no tasks, using defaults")
		return DefaultItems(), nil
	}
	return items, nil
}

func (g *VisionGenerator) analyze(ctx context.Context, image []byte) (items []Item, err error) {
	if len(image) == 0 {
		return nil, errors.New("image required")
	}
	start := time.Now()
	defer func() { metrics.ObserveExternalCall(metricsService, start, err) }()

	parts := []*genai.Part{
		genai.NewPartFromText(visionPrompt),
		genai.NewPartFromBytes(image, http.DetectContentType(image)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("genai generate failed: %w", err)
	}
	if resp == nil {
		return nil, errors.New("genai returned no response")
	}
	return parseItems(resp.Text())
}

// parseItems reads a JSON task array, tolerating a surrounding code fence.
func parseItems(text string) ([]Item, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty model answer")
	}

	var raw []Item
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode model answer: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, item := range raw {
		item.Task = strings.TrimSpace(item.Task)
		item.Reason = strings.TrimSpace(item.Reason)
		if item.Task == "" {
			continue
		}
		items = append(items, item)
		if len(items) == maxVisionItems {
			break
		}
	}
	return items, nil
}
