package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/types"
)

const imageURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ObjectStore is the slice of S3 the image service needs. config.S3Config
// implements it.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, key string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ImageService handles recipe image storage operations
type ImageService struct {
	store ObjectStore
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance. A nil store disables
// uploads.
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// UploadRecipeImage stores body under a fresh key for the recipe and returns
// the key.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrInvalidImage
	}

	key := fmt.Sprintf("recipes/%s/%s.%s", recipeID, uuid.New(), ext)
	if err := s.store.PutObject(ctx, key, contentType, body); err != nil {
		return "", fmt.Errorf("failed to upload recipe image: %w", err)
	}
	log.Printf("[ImageService] Stored image for recipe %s at %s", recipeID, key)
	return key, nil
}

// ImageURL presigns a short-lived download link for key.
func (s *ImageService) ImageURL(ctx context.Context, key string) (*types.RecipeImageURL, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if key == "" {
		return nil, ErrNotFound
	}
	url, err := s.store.GeneratePresignedURL(ctx, key, imageURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign image url: %w", err)
	}
	return &types.RecipeImageURL{URL: url, ExpiresAt: time.Now().Add(imageURLExpiry)}, nil
}

// DeleteImage removes a stored image; an empty key is a no-op.
func (s *ImageService) DeleteImage(ctx context.Context, key string) error {
	if s.store == nil || key == "" {
		return nil
	}
	if err := s.store.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	return nil
}
