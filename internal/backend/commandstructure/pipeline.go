package commandstructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline applies a fixed sequence of commands to image data.
type Pipeline struct {
	commands []Command
}

// NewPipeline builds all configured commands up front so that
// configuration errors surface at startup rather than on the first upload.
func NewPipeline(registry *CommandRegistry, configs []CommandConfig) (*Pipeline, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("command at index %d: %w", i, err)
		}
		commands = append(commands, command)
	}
	return &Pipeline{commands: commands}, nil
}

// NewPipelineFromCommands wraps already constructed commands.
func NewPipelineFromCommands(commands ...Command) *Pipeline {
	return &Pipeline{commands: commands}
}

func (p *Pipeline) Len() int {
	return len(p.commands)
}

// Execute runs every command in order, feeding each the previous output.
// An empty pipeline returns the input unchanged.
func (p *Pipeline) Execute(ctx context.Context, imageData []byte) ([]byte, error) {
	if len(p.commands) == 0 {
		return imageData, nil
	}

	start := time.Now()
	current := imageData
	for idx, command := range p.commands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commandStart := time.Now()
		processed, err := command.Execute(current)
		if err != nil {
			slog.Error("image command failed",
				"index", idx,
				"command_name", command.Name(),
				"input_size_bytes", len(current),
				"error", err)
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}
		slog.Debug("image command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_size_bytes", len(current),
			"output_size_bytes", len(processed))
		current = processed
	}

	slog.Info("image pipeline completed",
		"command_count", len(p.commands),
		"total_duration_ms", time.Since(start).Milliseconds(),
		"final_size_bytes", len(current))
	return current, nil
}
