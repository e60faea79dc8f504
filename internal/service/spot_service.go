package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"lodging-service/internal/events"
	"lodging-service/internal/model"
	"lodging-service/internal/repository"
	"lodging-service/internal/validation"

	"github.com/google/uuid"
)

type SpotInput struct {
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	Name        string   `json:"name" validate:"required,max=50"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=99999999.99"`
}

var spotMessages = validation.Messages{
	"address":     {"": "Street address is required"},
	"city":        {"": "City is required"},
	"state":       {"": "State is required"},
	"country":     {"": "Country is required"},
	"lat":         {"": "Latitude must be within -90 and 90"},
	"lng":         {"": "Longitude must be within -180 and 180"},
	"name":        {"required": "Name is required", "max": "Name must be less than 50 characters"},
	"description": {"": "Description is required"},
	"price":       {"": "Price per day must be a positive number", "lte": "Price per day must be at most 99999999.99"},
}

// SpotQuery is the pagination of the public spot listing.
type SpotQuery struct {
	Page int `query:"page" json:"page" validate:"gte=1,lte=10"`
	Size int `query:"size" json:"size" validate:"gte=1,lte=20"`
}

var spotQueryMessages = validation.Messages{
	"page": {"": "Page must be greater than or equal to 1 and at most 10"},
	"size": {"": "Size must be greater than or equal to 1 and at most 20"},
}

func DefaultSpotQuery() SpotQuery {
	return SpotQuery{Page: 1, Size: 20}
}

type SpotService interface {
	List(ctx context.Context, query SpotQuery) ([]model.SpotSummary, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SpotSummary, error)
	Details(ctx context.Context, spotID uuid.UUID) (*model.SpotDetails, error)
	Create(ctx context.Context, ownerID uuid.UUID, input SpotInput) (*model.Spot, error)
	Update(ctx context.Context, spotID, callerID uuid.UUID, input SpotInput) (*model.Spot, error)
	Delete(ctx context.Context, spotID, callerID uuid.UUID) error
	AddImage(ctx context.Context, spotID, callerID uuid.UUID, input SpotImageInput) (*model.SpotImage, error)
	DeleteImage(ctx context.Context, imageID, callerID uuid.UUID) error
	ImageUploadURL(ctx context.Context, spotID, callerID uuid.UUID, input ImageUploadInput) (*model.ImageUpload, error)
}

type spotService struct {
	spotRepo   repository.SpotRepository
	imageRepo  repository.SpotImageRepository
	reviewRepo repository.ReviewRepository
	publisher  events.EventPublisher
	presigner  UploadPresigner
}

// NewSpotService builds the spot service. presigner may be nil when object storage is not configured.
func NewSpotService(
	spotRepo repository.SpotRepository,
	imageRepo repository.SpotImageRepository,
	reviewRepo repository.ReviewRepository,
	publisher events.EventPublisher,
	presigner UploadPresigner,
) SpotService {
	return &spotService{
		spotRepo:   spotRepo,
		imageRepo:  imageRepo,
		reviewRepo: reviewRepo,
		publisher:  publisher,
		presigner:  presigner,
	}
}

func (s *spotService) List(ctx context.Context, query SpotQuery) ([]model.SpotSummary, error) {
	if err := validation.Check(&query, spotQueryMessages); err != nil {
		return nil, err
	}

	spots, err := s.spotRepo.List(ctx, query.Size, (query.Page-1)*query.Size)
	if err != nil {
		return nil, fmt.Errorf("listing spots: %w", err)
	}

	return s.summarize(ctx, spots)
}

func (s *spotService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.SpotSummary, error) {
	spots, err := s.spotRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing owner spots: %w", err)
	}

	return s.summarize(ctx, spots)
}

// summarize attaches avgRating and previewImage with one batched query per child table.
func (s *spotService) summarize(ctx context.Context, spots []model.Spot) ([]model.SpotSummary, error) {
	ids := make([]uuid.UUID, len(spots))
	for i, spot := range spots {
		ids[i] = spot.ID
	}

	ratings, err := s.reviewRepo.RatingsBySpotIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading spot ratings: %w", err)
	}
	stars := make(map[uuid.UUID][]int, len(ids))
	for _, r := range ratings {
		stars[r.SpotID] = append(stars[r.SpotID], r.Stars)
	}

	previews, err := previewImagesBySpot(ctx, s.imageRepo, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.SpotSummary, len(spots))
	for i, spot := range spots {
		summaries[i] = model.SpotSummary{
			Spot:         spot,
			AvgRating:    AverageRating(stars[spot.ID]),
			PreviewImage: previews[spot.ID],
		}
	}
	return summaries, nil
}

func (s *spotService) Details(ctx context.Context, spotID uuid.UUID) (*model.SpotDetails, error) {
	spot, err := s.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("finding spot: %w", err)
	}
	if spot == nil {
		return nil, notFound("Spot")
	}

	images, err := s.imageRepo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("listing spot images: %w", err)
	}

	ratings, err := s.reviewRepo.RatingsBySpotIDs(ctx, []uuid.UUID{spotID})
	if err != nil {
		return nil, fmt.Errorf("loading spot ratings: %w", err)
	}
	stars := make([]int, len(ratings))
	for i, r := range ratings {
		stars[i] = r.Stars
	}

	owner, err := s.spotRepo.FindOwnerSummary(ctx, spot.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("finding spot owner: %w", err)
	}

	return &model.SpotDetails{
		Spot:          *spot,
		NumReviews:    len(stars),
		AvgStarRating: AverageRating(stars),
		SpotImages:    images,
		Owner:         owner,
	}, nil
}

func (s *spotService) Create(ctx context.Context, ownerID uuid.UUID, input SpotInput) (*model.Spot, error) {
	if err := validation.Check(&input, spotMessages); err != nil {
		return nil, err
	}

	spot := &model.Spot{OwnerID: ownerID}
	applySpotInput(spot, input)

	created, err := s.spotRepo.Create(ctx, spot)
	if err != nil {
		if mapped := missingParent(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("creating spot: %w", err)
	}

	if err := s.publisher.PublishSpotCreated(created); err != nil {
		slog.WarnContext(ctx, "Failed to publish spot.created", slog.String("spot_id", created.ID.String()), slog.String("error", err.Error()))
	}

	return created, nil
}

func (s *spotService) Update(ctx context.Context, spotID, callerID uuid.UUID, input SpotInput) (*model.Spot, error) {
	if err := authorize(ctx, "Spot", spotID, callerID, s.spotRepo.OwnerOf); err != nil {
		return nil, err
	}
	if err := validation.Check(&input, spotMessages); err != nil {
		return nil, err
	}

	spot, err := s.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("finding spot: %w", err)
	}
	if spot == nil {
		return nil, notFound("Spot")
	}

	applySpotInput(spot, input)
	if err := s.spotRepo.Update(ctx, spot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Spot")
		}
		return nil, fmt.Errorf("updating spot: %w", err)
	}

	return spot, nil
}

func applySpotInput(spot *model.Spot, input SpotInput) {
	spot.Address = input.Address
	spot.City = input.City
	spot.State = input.State
	spot.Country = input.Country
	spot.Lat = input.Lat
	spot.Lng = input.Lng
	spot.Name = input.Name
	spot.Description = input.Description
	if input.Price != nil {
		spot.Price = *input.Price
	}
}

func (s *spotService) Delete(ctx context.Context, spotID, callerID uuid.UUID) error {
	if err := authorize(ctx, "Spot", spotID, callerID, s.spotRepo.OwnerOf); err != nil {
		return err
	}

	// The cascaded review ids travel with the event so their stored images can be cleaned up.
	reviewIDs, err := s.spotRepo.Delete(ctx, spotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Spot")
		}
		return fmt.Errorf("deleting spot: %w", err)
	}

	if err := s.publisher.PublishSpotDeleted(spotID, callerID, reviewIDs); err != nil {
		slog.WarnContext(ctx, "Failed to publish spot.deleted", slog.String("spot_id", spotID.String()), slog.String("error", err.Error()))
	}

	return nil
}

func (s *spotService) AddImage(ctx context.Context, spotID, callerID uuid.UUID, input SpotImageInput) (*model.SpotImage, error) {
	if err := authorize(ctx, "Spot", spotID, callerID, s.spotRepo.OwnerOf); err != nil {
		return nil, err
	}
	if err := validation.Check(&input, imageMessages); err != nil {
		return nil, err
	}

	image := &model.SpotImage{SpotID: spotID, URL: input.URL, Preview: input.Preview}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		if mapped := missingParent(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("creating spot image: %w", err)
	}

	return image, nil
}

func (s *spotService) DeleteImage(ctx context.Context, imageID, callerID uuid.UUID) error {
	if err := authorize(ctx, "Spot Image", imageID, callerID, s.imageRepo.OwnerOf); err != nil {
		return err
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("deleting spot image: %w", err)
	}
	return nil
}

func (s *spotService) ImageUploadURL(ctx context.Context, spotID, callerID uuid.UUID, input ImageUploadInput) (*model.ImageUpload, error) {
	if err := authorize(ctx, "Spot", spotID, callerID, s.spotRepo.OwnerOf); err != nil {
		return nil, err
	}
	return presignImageUpload(ctx, s.presigner, "spots", spotID, input)
}
