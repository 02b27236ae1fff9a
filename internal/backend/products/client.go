// Package products searches Amazon listings through the RapidAPI amazon24 API.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jo-hoe/cozymind/internal/backend/metrics"
)

const (
	DefaultHost        = "amazon24.p.rapidapi.com"
	DefaultLimit       = 4
	searchPath         = "/api/product/search"
	defaultHTTPTimeout = 15 * time.Second
	maxErrorBodyBytes  = 2048
	metricsService     = "product_search"
)

// ErrMissingAPIKey is returned when no RapidAPI key is configured.
var ErrMissingAPIKey = errors.New("product search api key not configured")

type Config struct {
	APIKey         string
	Host           string
	BaseURL        string
	TimeoutSeconds int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      Cache
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

// WithCache enables result caching.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
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
			Host:           strings.TrimSpace(cfg.Host),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Host == "" {
		client.cfg.Host = DefaultHost
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://" + client.cfg.Host
	}
	return client
}

// SearchTerms joins keywords and, when given, the style into one query.
func SearchTerms(keywords []string, style string) string {
	terms := append([]string{}, keywords...)
	if strings.TrimSpace(style) != "" {
		terms = append(terms, style)
	}
	return strings.Join(terms, " ")
}

// Search issues a single search request and returns at most limit products.
// A limit of zero or less uses DefaultLimit.
func (c *Client) Search(ctx context.Context, keywords []string, style string, limit int) (products []Product, err error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	terms := SearchTerms(keywords, style)
	key := cacheKey(terms, limit)

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			slog.Debug("product search served from cache", "terms", terms, "limit", limit)
			return cached, nil
		}
	}

	slog.Info("searching products", "terms", terms)
	start := time.Now()
	defer func() { metrics.ObserveExternalCall(metricsService, start, err) }()

	query := url.Values{}
	query.Set("keyword", terms)
	query.Set("country", "US")
	query.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+searchPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("product search: build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product search: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("product search: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload searchResponseV1
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("product search: decode response: %w", err)
	}

	products = make([]Product, 0, limit)
	withImage := 0
	for _, doc := range payload.Docs {
		if len(products) == limit {
			break
		}
		product, ok := doc.toProduct()
		if !ok {
			continue
		}
		if product.ImageURL != PlaceholderImage {
			withImage++
		}
		products = append(products, product)
	}
	slog.Info("product search complete", "found", len(products), "with_image", withImage)

	if c.cache != nil && len(products) > 0 {
		c.cache.Set(ctx, key, products)
	}
	return products, nil
}

// cacheKey includes the limit since cached lists are already cut to it.
func cacheKey(terms string, limit int) string {
	return fmt.Sprintf("%d:%s", limit, terms)
}
