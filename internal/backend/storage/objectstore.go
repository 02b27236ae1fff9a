// Package storage exposes public-read buckets backed by the objects table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jo-hoe/cozymind/internal/backend/database"
)

const (
	BucketBefore = "before"
	BucketAfter  = "after"

	// PublicPathPrefix is the route prefix under which objects are served.
	PublicPathPrefix = "/storage/v1/object/public"
)

var (
	ErrInvalidURL     = errors.New("invalid storage URL")
	ErrObjectNotFound = errors.New("object not found")
)

type ObjectStore struct {
	databaseService database.DatabaseService
	publicBaseURL   string
}

func NewObjectStore(databaseService database.DatabaseService, publicBaseURL string) *ObjectStore {
	return &ObjectStore{
		databaseService: databaseService,
		publicBaseURL:   strings.TrimRight(publicBaseURL, "/"),
	}
}

// PublicURL returns the absolute URL under which the object is served.
func (s *ObjectStore) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s%s/%s/%s", s.publicBaseURL, PublicPathPrefix, bucket, name)
}

// Upload stores data under bucket/name and returns its public URL.
// Existing objects are never replaced.
func (s *ObjectStore) Upload(ctx context.Context, bucket, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if bucket == "" || name == "" {
		return "", fmt.Errorf("bucket and name are required")
	}
	err := s.databaseService.PutObject(&database.Object{
		Bucket:      bucket,
		Path:        name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s/%s: %w", bucket, name, err)
	}
	slog.Info("object uploaded", "bucket", bucket, "path", name, "size_bytes", len(data))
	return s.PublicURL(bucket, name), nil
}

// Download resolves a public URL back to its object and returns the content.
func (s *ObjectStore) Download(ctx context.Context, publicURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bucket, path, err := ParsePublicURL(publicURL)
	if err != nil {
		return nil, err
	}
	object, err := s.Get(bucket, path)
	if err != nil {
		return nil, err
	}
	return object.Data, nil
}

// Get returns the stored object or ErrObjectNotFound.
func (s *ObjectStore) Get(bucket, path string) (*database.Object, error) {
	object, err := s.databaseService.GetObject(bucket, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucket, path, err)
	}
	if object == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, path)
	}
	return object, nil
}

// ParsePublicURL splits a public object URL into bucket and object path.
// The bucket is the path segment following "public", the rest is the object path.
func ParsePublicURL(rawURL string) (bucket string, path string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var parts []string
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	publicIndex := -1
	for i, part := range parts {
		if part == "public" {
			publicIndex = i
			break
		}
	}
	if publicIndex == -1 {
		return "", "", fmt.Errorf("%w: missing \"public\" in path of %q", ErrInvalidURL, rawURL)
	}
	if len(parts) < publicIndex+3 {
		return "", "", fmt.Errorf("%w: missing bucket or object path in %q", ErrInvalidURL, rawURL)
	}

	return parts[publicIndex+1], strings.Join(parts[publicIndex+2:], "/"), nil
}
