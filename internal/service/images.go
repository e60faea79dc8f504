package service

import (
	"context"
	"fmt"

	"lodging-service/internal/model"
	"lodging-service/internal/repository"
	"lodging-service/internal/validation"

	"github.com/google/uuid"
)

type SpotImageInput struct {
	URL     string `json:"url" validate:"required"`
	Preview bool   `json:"preview"`
}

type ReviewImageInput struct {
	URL string `json:"url" validate:"required"`
}

var imageMessages = validation.Messages{
	"url": {"": "Url is required"},
}

type ImageUploadInput struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

var uploadMessages = validation.Messages{
	"contentType": {"": "Content type must be one of image/jpeg, image/png, image/webp"},
}

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadPresigner signs direct uploads to object storage.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, objectKey, contentType string) (uploadURL, objectURL string, err error)
}

func presignImageUpload(ctx context.Context, presigner UploadPresigner, prefix string, parentID uuid.UUID, input ImageUploadInput) (*model.ImageUpload, error) {
	if presigner == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validation.Check(&input, uploadMessages); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s%s", prefix, parentID, uuid.New(), uploadExtensions[input.ContentType])
	uploadURL, objectURL, err := presigner.PresignUpload(ctx, key, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	return &model.ImageUpload{UploadURL: uploadURL, ImageURL: objectURL}, nil
}

// previewImagesBySpot loads the images of every spot in one query and reduces each set to its preview.
func previewImagesBySpot(ctx context.Context, images repository.SpotImageRepository, spotIDs []uuid.UUID) (map[uuid.UUID]*string, error) {
	all, err := images.ListBySpotIDs(ctx, spotIDs)
	if err != nil {
		return nil, fmt.Errorf("listing spot images: %w", err)
	}

	grouped := make(map[uuid.UUID][]model.SpotImage, len(spotIDs))
	for _, img := range all {
		grouped[img.SpotID] = append(grouped[img.SpotID], img)
	}

	previews := make(map[uuid.UUID]*string, len(spotIDs))
	for _, id := range spotIDs {
		previews[id] = PreviewImage(grouped[id])
	}
	return previews, nil
}
