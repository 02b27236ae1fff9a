package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/cozymind/internal/backend/database"
)

type SaveResultRequest struct {
	BeforeImage string          `json:"before_image" validate:"required"`
	AfterImage  string          `json:"after_image" validate:"required"`
	Prompt      string          `json:"prompt" validate:"required"`
	Style       string          `json:"style" validate:"required"`
	Budget      *float64        `json:"budget,omitempty"`
	Size        *string         `json:"size,omitempty"`
	Items       []database.Item `json:"items,omitempty"`
}

// SaveResult stores a finished design for userID and returns the new record id.
// A zero budget and an empty size are stored as absent.
func (service *CoreService) SaveResult(ctx context.Context, userID string, request SaveResultRequest) (string, error) {
	if userID == "" {
		return "", ErrUnauthorized
	}
	if request.BeforeImage == "" || request.AfterImage == "" || request.Prompt == "" || request.Style == "" {
		return "", fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	record := &database.Result{
		UserID:      userID,
		BeforeImage: request.BeforeImage,
		AfterImage:  request.AfterImage,
		Prompt:      request.Prompt,
		Style:       request.Style,
		Items:       request.Items,
	}
	if request.Budget != nil && *request.Budget != 0 {
		budget := *request.Budget
		record.Budget = &budget
	}
	if request.Size != nil && *request.Size != "" {
		size := *request.Size
		record.Size = &size
	}

	saved, err := service.databaseService.CreateResult(record)
	if err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	slog.Info("result saved", "result_id", saved.ID, "user_id", userID)
	return saved.ID, nil
}

// GetResult returns the record only to its owner. Foreign records are reported as not found.
func (service *CoreService) GetResult(ctx context.Context, userID, id string) (*database.Result, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := service.databaseService.GetResultByID(id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: result %s", ErrNotFound, id)
	}
	return result, nil
}

// ListResults returns the records of userID, newest first. Only the user themself may list them.
func (service *CoreService) ListResults(ctx context.Context, sessionUserID, userID string) ([]*database.Result, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if sessionUserID == "" || sessionUserID != userID {
		return nil, ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := service.databaseService.GetResultsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	return results, nil
}
