package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestStaticGenerator(t *testing.T) {
	items, err := NewStaticGenerator().Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Task == "" || item.Reason == "" {
			t.Errorf("item %d is incomplete: %+v", i, item)
		}
	}

	items[0].Task = "changed"
	if DefaultItems()[0].Task == "changed" {
		t.Error("DefaultItems must return a fresh copy")
	}
}

type fakeModels struct {
	text      string
	err       error
	gotModel  string
	gotConfig *genai.GenerateContentConfig
	gotParts  int
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 {
		f.gotParts = len(contents[0].Parts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestVisionGenerator(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nrest")

	tests := []struct {
		name string
		fake *fakeModels
		want []Item
	}{
		{
			name: "model answer is used",
			fake: &fakeModels{text: "```json\n[{\"task\":\" Clear the mug \",\"reason\":\"dishes pile up\"},{\"task\":\"\"},{\"task\":\"Coil the charger\"}]\n```"},
			want: []Item{
				{Task: "Clear the mug", Reason: "dishes pile up"},
				{Task: "Coil the charger"},
			},
		},
		{
			name: "api error falls back",
			fake: &fakeModels{err: errors.New("quota exceeded")},
			want: DefaultItems(),
		},
		{
			name: "malformed answer falls back",
			fake: &fakeModels{text: "I see a desk."},
			want: DefaultItems(),
		},
		{
			name: "empty list falls back",
			fake: &fakeModels{text: "[]"},
			want: DefaultItems(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := newVisionGenerator(tt.fake, "")
			got, err := generator.Generate(context.Background(), image)
			if err != nil {
				t.Fatalf("Generate error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Generate mismatch (-want +got):\n%s", diff)
			}
			if tt.fake.gotModel != DefaultVisionModel {
				t.Errorf("model = %q, want %q", tt.fake.gotModel, DefaultVisionModel)
			}
			if tt.fake.gotParts != 2 {
				t.Errorf("expected prompt and image parts, got %d", tt.fake.gotParts)
			}
			if tt.fake.gotConfig == nil || tt.fake.gotConfig.ResponseMIMEType != "application/json" {
				t.Errorf("expected JSON response config, got %+v", tt.fake.gotConfig)
			}
		})
	}
}

func TestVisionGenerator_EmptyImageFallsBack(t *testing.T) {
	fake := &fakeModels{text: `[{"task":"x"}]`}
	got, err := newVisionGenerator(fake, "gemini-test").Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if diff := cmp.Diff(DefaultItems(), got); diff != "" {
		t.Errorf("Generate mismatch (-want +got):\n%s", diff)
	}
	if fake.gotModel != "" {
		t.Error("model must not be called without an image")
	}
}

func TestNewVisionGenerator_RequiresKey(t *testing.T) {
	if _, err := NewVisionGenerator(context.Background(), " ", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
