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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MaxReviewImages = 10

var reviewImageLimitRejections = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "review_image_limit_rejections_total",
		Help: "Review image uploads rejected because the review already holds the maximum number of images",
	},
)

type ReviewInput struct {
	Review string `json:"review" validate:"required"`
	Stars  int    `json:"stars" validate:"required,gte=1,lte=5"`
}

var reviewMessages = validation.Messages{
	"review": {"": "Review text is required"},
	"stars":  {"": "Stars must be an integer from 1 to 5"},
}

type ReviewService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ReviewDetails, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]model.ReviewDetails, error)
	Create(ctx context.Context, spotID, userID uuid.UUID, input ReviewInput) (*model.Review, error)
	Update(ctx context.Context, reviewID, callerID uuid.UUID, input ReviewInput) (*model.Review, error)
	Delete(ctx context.Context, reviewID, callerID uuid.UUID) error
	AddImage(ctx context.Context, reviewID, callerID uuid.UUID, input ReviewImageInput) (*model.ReviewImage, error)
	DeleteImage(ctx context.Context, imageID, callerID uuid.UUID) error
	ImageUploadURL(ctx context.Context, reviewID, callerID uuid.UUID, input ImageUploadInput) (*model.ImageUpload, error)
}

type reviewService struct {
	reviewRepo      repository.ReviewRepository
	reviewImageRepo repository.ReviewImageRepository
	spotRepo        repository.SpotRepository
	spotImageRepo   repository.SpotImageRepository
	publisher       events.EventPublisher
	presigner       UploadPresigner
}

// NewReviewService builds the review service. presigner may be nil when object storage is not configured.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	reviewImageRepo repository.ReviewImageRepository,
	spotRepo repository.SpotRepository,
	spotImageRepo repository.SpotImageRepository,
	publisher events.EventPublisher,
	presigner UploadPresigner,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		reviewImageRepo: reviewImageRepo,
		spotRepo:        spotRepo,
		spotImageRepo:   spotImageRepo,
		publisher:       publisher,
		presigner:       presigner,
	}
}

func (s *reviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ReviewDetails, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user reviews: %w", err)
	}

	details, err := s.withImages(ctx, reviews)
	if err != nil {
		return nil, err
	}

	spotIDs := make([]uuid.UUID, 0, len(reviews))
	seen := make(map[uuid.UUID]bool, len(reviews))
	for _, r := range reviews {
		if !seen[r.SpotID] {
			seen[r.SpotID] = true
			spotIDs = append(spotIDs, r.SpotID)
		}
	}

	spots, err := s.spotRepo.FindByIDs(ctx, spotIDs)
	if err != nil {
		return nil, fmt.Errorf("loading reviewed spots: %w", err)
	}
	previews, err := previewImagesBySpot(ctx, s.spotImageRepo, spotIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.ReviewSpot, len(spots))
	for _, spot := range spots {
		byID[spot.ID] = &model.ReviewSpot{
			ID:           spot.ID,
			OwnerID:      spot.OwnerID,
			Address:      spot.Address,
			City:         spot.City,
			State:        spot.State,
			Country:      spot.Country,
			Lat:          spot.Lat,
			Lng:          spot.Lng,
			Name:         spot.Name,
			Price:        spot.Price,
			PreviewImage: previews[spot.ID],
		}
	}

	for i := range details {
		details[i].Spot = byID[details[i].SpotID]
	}
	return details, nil
}

func (s *reviewService) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]model.ReviewDetails, error) {
	spot, err := s.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("finding spot: %w", err)
	}
	if spot == nil {
		return nil, notFound("Spot")
	}

	reviews, err := s.reviewRepo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("listing spot reviews: %w", err)
	}

	return s.withImages(ctx, reviews)
}

// withImages loads review images by review id in a single query.
func (s *reviewService) withImages(ctx context.Context, reviews []repository.ReviewWithAuthor) ([]model.ReviewDetails, error) {
	ids := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}

	images, err := s.reviewImageRepo.ListByReviewIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing review images: %w", err)
	}
	grouped := make(map[uuid.UUID][]model.ReviewImage, len(ids))
	for _, img := range images {
		grouped[img.ReviewID] = append(grouped[img.ReviewID], img)
	}

	details := make([]model.ReviewDetails, len(reviews))
	for i, r := range reviews {
		imgs := grouped[r.ID]
		if imgs == nil {
			imgs = []model.ReviewImage{}
		}
		details[i] = model.ReviewDetails{
			Review:       r.Review,
			User:         r.Author(),
			ReviewImages: imgs,
		}
	}
	return details, nil
}

func (s *reviewService) Create(ctx context.Context, spotID, userID uuid.UUID, input ReviewInput) (*model.Review, error) {
	spot, err := s.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("finding spot: %w", err)
	}
	if spot == nil {
		return nil, notFound("Spot")
	}

	reviewed, err := s.reviewRepo.CheckIfUserReviewedSpot(ctx, userID, spotID)
	if err != nil {
		return nil, fmt.Errorf("checking existing review: %w", err)
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	if err := validation.Check(&input, reviewMessages); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.Create(ctx, &model.Review{
		SpotID: spotID,
		UserID: userID,
		Review: input.Review,
		Stars:  input.Stars,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyReviewed
		}
		if mapped := missingParent(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("creating review: %w", err)
	}

	if err := s.publisher.PublishReviewCreated(review); err != nil {
		slog.WarnContext(ctx, "Failed to publish review.created", slog.String("review_id", review.ID.String()), slog.String("error", err.Error()))
	}

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, reviewID, callerID uuid.UUID, input ReviewInput) (*model.Review, error) {
	if err := authorize(ctx, "Review", reviewID, callerID, s.reviewRepo.AuthorOf); err != nil {
		return nil, err
	}
	if err := validation.Check(&input, reviewMessages); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("finding review: %w", err)
	}
	if review == nil {
		return nil, notFound("Review")
	}

	review.Review = input.Review
	review.Stars = input.Stars
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Review")
		}
		return nil, fmt.Errorf("updating review: %w", err)
	}

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID, callerID uuid.UUID) error {
	if err := authorize(ctx, "Review", reviewID, callerID, s.reviewRepo.AuthorOf); err != nil {
		return err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("finding review: %w", err)
	}
	if review == nil {
		return notFound("Review")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}

	if err := s.publisher.PublishReviewDeleted(review); err != nil {
		slog.WarnContext(ctx, "Failed to publish review.deleted", slog.String("review_id", reviewID.String()), slog.String("error", err.Error()))
	}
	return nil
}

func (s *reviewService) AddImage(ctx context.Context, reviewID, callerID uuid.UUID, input ReviewImageInput) (*model.ReviewImage, error) {
	if err := authorize(ctx, "Review", reviewID, callerID, s.reviewRepo.AuthorOf); err != nil {
		return nil, err
	}
	if err := validation.Check(&input, imageMessages); err != nil {
		return nil, err
	}

	image := &model.ReviewImage{ReviewID: reviewID, URL: input.URL}
	err := s.reviewImageRepo.CreateCapped(ctx, image, MaxReviewImages)
	switch {
	case errors.Is(err, repository.ErrCapacityReached):
		reviewImageLimitRejections.Inc()
		return nil, ErrImageLimitReached
	case errors.Is(err, sql.ErrNoRows):
		return nil, notFound("Review")
	case err != nil:
		return nil, fmt.Errorf("creating review image: %w", err)
	}

	return image, nil
}

func (s *reviewService) DeleteImage(ctx context.Context, imageID, callerID uuid.UUID) error {
	if err := authorize(ctx, "Review Image", imageID, callerID, s.reviewImageRepo.AuthorOf); err != nil {
		return err
	}

	if err := s.reviewImageRepo.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("deleting review image: %w", err)
	}
	return nil
}

func (s *reviewService) ImageUploadURL(ctx context.Context, reviewID, callerID uuid.UUID, input ImageUploadInput) (*model.ImageUpload, error) {
	if err := authorize(ctx, "Review", reviewID, callerID, s.reviewRepo.AuthorOf); err != nil {
		return nil, err
	}
	return presignImageUpload(ctx, s.presigner, "reviews", reviewID, input)
}
