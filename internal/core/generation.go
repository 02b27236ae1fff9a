package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jo-hoe/cozymind/internal/backend/database"
	"github.com/jo-hoe/cozymind/internal/backend/inpaint"
	"github.com/jo-hoe/cozymind/internal/backend/metrics"
	"github.com/jo-hoe/cozymind/internal/backend/products"
	"github.com/jo-hoe/cozymind/internal/backend/storage"
	"github.com/jo-hoe/cozymind/internal/backend/todo"
)

const (
	imageKindInitial = "initial"
	imageKindFinal   = "final"
	productLimit     = 4
)

type GenerateAfterProductListRequest struct {
	BeforeImageURL string   `json:"before_image_url" validate:"required"`
	Prompt         string   `json:"prompt" validate:"required"`
	Style          string   `json:"style" validate:"required"`
	Budget         *float64 `json:"budget,omitempty"`
	Size           *string  `json:"size,omitempty"`
	ChatMessages   []string `json:"chat_messages,omitempty"`
}

type GenerateAfterProductListResponse struct {
	FinalAfterImageURL string          `json:"final_after_image_url"`
	AmazonItems        []database.Item `json:"amazon_items"`
	TodoList           []todo.Item     `json:"todo_list"`
}

// GenerateInitialAfter produces the first clean-up image for a stored before image.
func (service *CoreService) GenerateInitialAfter(ctx context.Context, beforeImageURL string) (string, error) {
	if strings.TrimSpace(beforeImageURL) == "" {
		return "", fmt.Errorf("%w: before_image_url is required", ErrInvalidInput)
	}
	if !service.inpaintClient.Configured() {
		return "", fmt.Errorf("%w: stability api key", ErrNotConfigured)
	}

	before, err := service.objectStore.Download(ctx, beforeImageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download before image: %w", err)
	}

	return service.generate(ctx, InitialPrompt(), before, "generated", imageKindInitial)
}

// GenerateAfterProductList produces the final styled image, then the
// checklist and the product list side by side.
func (service *CoreService) GenerateAfterProductList(ctx context.Context, request GenerateAfterProductListRequest) (*GenerateAfterProductListResponse, error) {
	if request.BeforeImageURL == "" || request.Prompt == "" || request.Style == "" {
		return nil, fmt.Errorf("%w: before_image_url, prompt, and style are required", ErrInvalidInput)
	}
	if !service.inpaintClient.Configured() {
		return nil, fmt.Errorf("%w: stability api key", ErrNotConfigured)
	}

	before, err := service.objectStore.Download(ctx, request.BeforeImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download before image: %w", err)
	}

	prompt := CustomizedPrompt(PromptInput{
		Style:        request.Style,
		Budget:       request.Budget,
		ChatMessages: request.ChatMessages,
		Vision:       request.Prompt,
	})
	finalURL, err := service.generate(ctx, prompt, before, "generated-final", imageKindFinal)
	if err != nil {
		return nil, err
	}

	response := &GenerateAfterProductListResponse{FinalAfterImageURL: finalURL}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		response.TodoList = service.todoList(groupCtx, before)
		return nil
	})
	group.Go(func() error {
		response.AmazonItems = service.productItems(groupCtx, request)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return response, nil
}

func (service *CoreService) generate(ctx context.Context, prompt string, before []byte, prefix, kind string) (string, error) {
	start := time.Now()
	generated, err := service.inpaintClient.Inpaint(ctx, prompt, before)
	if errors.Is(err, inpaint.ErrImageTooLarge) {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	name := fmt.Sprintf("%s-%d.png", prefix, time.Now().UnixNano())
	url, err := service.objectStore.Upload(ctx, storage.BucketAfter, name, "image/png", generated)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	metrics.IncGeneratedImage(kind)
	slog.Info("after image generated", "kind", kind, "url", url, "duration_ms", time.Since(start).Milliseconds())
	return url, nil
}

// todoList never fails, a generator error yields an empty list.
func (service *CoreService) todoList(ctx context.Context, before []byte) []todo.Item {
	items, err := service.todoGenerator.Generate(ctx, before)
	if err != nil {
		slog.Error("failed to generate todo list", "error", err)
		return []todo.Item{}
	}
	if items == nil {
		return []todo.Item{}
	}
	return items
}

// productItems never fails, search errors or empty results yield the fallback items.
func (service *CoreService) productItems(ctx context.Context, request GenerateAfterProductListRequest) []database.Item {
	needs := products.ExtractNeeds(ChatContext(request.ChatMessages))
	keywords := products.GenerateKeywords(request.Style, needs)

	found, err := service.productClient.Search(ctx, keywords, request.Style, productLimit)
	switch {
	case errors.Is(err, products.ErrMissingAPIKey):
		slog.Warn("product search not configured, using fallback items")
	case err != nil:
		slog.Error("failed to search products", "error", err)
	case len(found) == 0:
		slog.Warn("no products found, using fallback items")
	default:
		items := make([]database.Item, 0, len(found))
		for i, product := range found {
			item := toItem(product)
			item.ID = fmt.Sprintf("amazon-%d", i+1)
			item.ProductURL = products.NormalizeAmazonURL(item.ProductURL, "")
			if strings.TrimSpace(item.ImageURL) == "" {
				item.ImageURL = products.PlaceholderImage
			}
			items = append(items, item)
		}
		return items
	}

	metrics.IncProductFallback()
	fallback := products.FallbackItems(request.Budget)
	items := make([]database.Item, 0, len(fallback))
	for _, product := range fallback {
		items = append(items, toItem(product))
	}
	return items
}

func toItem(product products.Product) database.Item {
	return database.Item{
		ID:         product.ID,
		Title:      product.Title,
		Price:      product.Price,
		ImageURL:   product.ImageURL,
		ProductURL: product.ProductURL,
		Rating:     product.Rating,
	}
}
