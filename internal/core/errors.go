package core

import "errors"

// Sentinel errors mapped to HTTP status codes by the API layer.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("not configured")
)
