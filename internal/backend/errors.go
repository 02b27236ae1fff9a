package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/cozymind/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(message any) error {
	return fmt.Errorf("%w: %v", core.ErrInvalidInput, message)
}

// statusFor maps core errors onto the flat 400/401/404/500 taxonomy.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *APIService) errorResponse(ctx echo.Context, handler string, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusUnauthorized {
		message = "Unauthorized"
	}
	if status >= http.StatusInternalServerError {
		slog.Error(handler+": request failed", "status", status, "error", err)
	} else {
		slog.Warn(handler+": request rejected", "status", status, "error", err)
	}
	return ctx.JSON(status, errorResponse{Error: message})
}
