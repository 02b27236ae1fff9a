// Package todo produces the desk cleaning checklist shown next to a generated image.
package todo

import "context"

// Item is one checklist entry.
type Item struct {
	Task   string `json:"task"`
	Reason string `json:"reason,omitempty"`
}

// Generator builds a checklist for the given before image.
type Generator interface {
	Generate(ctx context.Context, image []byte) ([]Item, error)
}

// StaticGenerator returns the same desk-level tasks for every image.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (g *StaticGenerator) Generate(ctx context.Context, _ []byte) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DefaultItems(), nil
}

// DefaultItems returns a fresh copy of the built-in desk tasks.
func DefaultItems() []Item {
	return []Item{
		{Task: "Throw away food packaging and snack wrappers on desk", Reason: "Remove visible trash from desk surface"},
		{Task: "Wipe the desk surface clean", Reason: "Remove dust and stains from desk"},
		{Task: "Organize cables into a tidy group with cable clips", Reason: "Keep cables neat and organized on desk"},
		{Task: "Stack notebooks and papers neatly", Reason: "Organize documents on desk"},
		{Task: "Move loose small items into a storage tray", Reason: "Group scattered desk items together"},
		{Task: "Group pens and stationery together in a holder", Reason: "Keep writing tools organized on desk"},
	}
}
