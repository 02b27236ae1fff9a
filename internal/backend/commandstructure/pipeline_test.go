package commandstructure

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPipeline_EmptyReturnsInput(t *testing.T) {
	pipeline := NewPipelineFromCommands()
	input := []byte("raw upload")

	result, err := pipeline.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result) != string(input) {
		t.Errorf("Expected %q, got %q", input, result)
	}
}

func TestPipeline_RunsCommandsInOrder(t *testing.T) {
	pipeline := NewPipelineFromCommands(
		newAppendingCommand("First", "-first"),
		newAppendingCommand("Second", "-second"),
	)

	result, err := pipeline.Execute(context.Background(), []byte("start"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result) != "start-first-second" {
		t.Errorf("Expected 'start-first-second', got %q", result)
	}
}

func TestPipeline_StopsOnFailure(t *testing.T) {
	called := false
	last := &mockCommand{name: "Last", executeFunc: func(b []byte) ([]byte, error) {
		called = true
		return b, nil
	}}
	pipeline := NewPipelineFromCommands(
		newAppendingCommand("First", "-first"),
		newFailingCommand("Broken", errors.New("decode failed")),
		last,
	)

	_, err := pipeline.Execute(context.Background(), []byte("start"))
	if err == nil {
		t.Fatal("Expected error when a command fails")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("Expected error to name the failing command, got %v", err)
	}
	if called {
		t.Error("Expected commands after the failure not to run")
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	pipeline := NewPipelineFromCommands(newAppendingCommand("First", "-first"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pipeline.Execute(ctx, []byte("start")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestNewPipeline_FromRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	err := registry.Register("Suffix", func(params map[string]any) (Command, error) {
		if err := ValidateRequiredParams(params, []string{"suffix"}); err != nil {
			return nil, err
		}
		suffix, _ := params["suffix"].(string)
		return newAppendingCommand("Suffix", suffix), nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	pipeline, err := NewPipeline(registry, []CommandConfig{{Name: "Suffix", Params: map[string]any{"suffix": "-x"}}})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	if pipeline.Len() != 1 {
		t.Fatalf("Expected 1 command, got %d", pipeline.Len())
	}

	if _, err := NewPipeline(registry, []CommandConfig{{Name: "Suffix", Params: map[string]any{}}}); err == nil {
		t.Error("Expected error for missing required parameter")
	}
	if _, err := NewPipeline(registry, []CommandConfig{{Name: "Unknown"}}); err == nil {
		t.Error("Expected error for unknown command")
	}
}
