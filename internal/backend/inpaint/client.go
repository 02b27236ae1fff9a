// Package inpaint wraps the Stability AI inpainting endpoint.
package inpaint

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jo-hoe/cozymind/internal/backend/metrics"
)

const (
	DefaultBaseURL     = "https://api.stability.ai"
	inpaintPath        = "/v2beta/stable-image/edit/inpaint"
	defaultHTTPTimeout = 120 * time.Second
	maxErrorBodyBytes  = 4096
	metricsService     = "stability_inpaint"
)

// ErrMissingAPIKey is returned when the client has no API key configured.
var ErrMissingAPIKey = errors.New("stability api key not configured")

type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client sends single-shot inpainting requests. Requests are never retried.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	return client
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// StatusError is returned for non-success HTTP responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stability api error: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type inpaintResponse struct {
	Image        string          `json:"image"`
	FinishReason string          `json:"finish_reason"`
	Errors       json.RawMessage `json:"errors"`
}

// Inpaint sends image with a full-canvas mask and prompt, and returns the edited image bytes.
func (c *Client) Inpaint(ctx context.Context, prompt string, image []byte) (result []byte, err error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("inpaint: prompt required")
	}
	if len(image) == 0 {
		return nil, errors.New("inpaint: image required")
	}

	mask, err := CreateFullWhiteMask(image)
	if err != nil {
		return nil, fmt.Errorf("inpaint: %w", err)
	}

	slog.Info("stability: starting image generation",
		"prompt_length", len(prompt),
		"image_size_bytes", len(image),
		"mask_size_bytes", len(mask))

	start := time.Now()
	defer func() { metrics.ObserveExternalCall(metricsService, start, err) }()

	body, contentType, err := buildMultipartBody(prompt, image, mask)
	if err != nil {
		return nil, fmt.Errorf("inpaint: build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+inpaintPath, body)
	if err != nil {
		return nil, fmt.Errorf("inpaint: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inpaint: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		slog.Error("stability: api error response", "status", resp.StatusCode, "body", string(raw))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var payload inpaintResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("inpaint: decode response: %w", err)
	}
	if len(payload.Errors) > 0 && string(payload.Errors) != "null" {
		return nil, fmt.Errorf("stability api error: %s", string(payload.Errors))
	}
	if payload.Image == "" {
		return nil, errors.New("no image in response from stability api")
	}

	result, err = base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		return nil, fmt.Errorf("inpaint: decode image: %w", err)
	}
	if len(result) == 0 {
		return nil, errors.New("empty image in response from stability api")
	}

	slog.Info("stability: image generation complete",
		"result_size_bytes", len(result),
		"finish_reason", payload.FinishReason,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func buildMultipartBody(prompt string, image, mask []byte) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("output_format", "png"); err != nil {
		return nil, "", err
	}
	for _, file := range []struct {
		field, name string
		data        []byte
	}{
		{field: "image", name: "image.png", data: image},
		{field: "mask", name: "mask.png", data: mask},
	} {
		part, err := writer.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}
