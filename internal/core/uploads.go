package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
	"github.com/jo-hoe/cozymind/internal/backend/storage"
)

var extensionsByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// UploadImage runs the upload pipeline on data, stores the result in the
// before bucket and returns its public URL.
func (service *CoreService) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	processed, err := service.uploadPipeline.Execute(ctx, data)
	if errors.Is(err, commandstructure.ErrInvalidImage) {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to process upload: %w", err)
	}

	extension, contentType := fileType(filename, processed)
	name := fmt.Sprintf("upload-%d.%s", time.Now().UnixNano(), extension)
	url, err := service.objectStore.Upload(ctx, storage.BucketBefore, name, contentType, processed)
	if err != nil {
		return "", err
	}
	slog.Info("image uploaded", "filename", filename, "object", name, "size_bytes", len(processed))
	return url, nil
}

var safeExtension = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// fileType sniffs the stored content and falls back to the client file extension.
// Content that does not sniff as an image is stored as application/octet-stream.
func fileType(filename string, data []byte) (string, string) {
	contentType := http.DetectContentType(data)
	if extension, ok := extensionsByContentType[contentType]; ok {
		return extension, contentType
	}
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch extension {
	case "svg":
		return extension, "image/svg+xml"
	case "tif", "tiff":
		return extension, "image/tiff"
	default:
		if !safeExtension.MatchString(extension) {
			extension = "bin"
		}
		if !strings.HasPrefix(contentType, "image/") {
			contentType = "application/octet-stream"
		}
		return extension, contentType
	}
}
