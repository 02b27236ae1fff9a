package frontend

import (
	"embed"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/cozymind/internal/backend/commands"
	"github.com/jo-hoe/cozymind/internal/backend/products"
)

const (
	mimePNG          = "image/png"
	mimeSVG          = "image/svg+xml"
	placeholderEdge  = 400
	assetCacheHeader = "public, max-age=604800, immutable"
)

//go:embed assets/*.svg
var assetsFS embed.FS

// FrontendService serves the static assets the API responses link to.
type FrontendService struct {
	placeholderOnce sync.Once
	placeholder     []byte
	placeholderErr  error
}

func NewFrontendService() *FrontendService {
	return &FrontendService{}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Placeholder for products without a picture
	e.GET(products.PlaceholderImage, service.placeholderHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

// placeholderHandler renders the placeholder SVG to PNG once and serves the cached bytes.
func (service *FrontendService) placeholderHandler(ctx echo.Context) error {
	service.placeholderOnce.Do(func() {
		svg, err := assetsFS.ReadFile("assets/no-image.svg")
		if err != nil {
			service.placeholderErr = err
			return
		}
		service.placeholder, service.placeholderErr = commands.RenderSVGToPNG(svg, placeholderEdge, placeholderEdge)
	})
	if service.placeholderErr != nil {
		slog.Error("placeholderHandler: failed to render placeholder", "status", http.StatusInternalServerError, "error", service.placeholderErr)
		return ctx.String(http.StatusInternalServerError, "Failed to load placeholder")
	}
	ctx.Response().Header().Set("Cache-Control", assetCacheHeader)
	return ctx.Blob(http.StatusOK, mimePNG, service.placeholder)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("assets/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", assetCacheHeader)
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}
