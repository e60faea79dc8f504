package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lodging-service/internal/model"
)

// ErrCapacityReached is returned by CreateCapped when the parent already holds the maximum number of children.
var ErrCapacityReached = errors.New("parent capacity reached")

type ReviewImageRepository interface {
	CreateCapped(ctx context.Context, image *model.ReviewImage, limit int) error
	CountByReview(ctx context.Context, reviewID uuid.UUID) (int, error)
	ListByReviewIDs(ctx context.Context, reviewIDs []uuid.UUID) ([]model.ReviewImage, error)
	AuthorOf(ctx context.Context, imageID uuid.UUID) (uuid.NullUUID, error)
	Delete(ctx context.Context, imageID uuid.UUID) error
}

type postgresReviewImageRepository struct {
	db *sqlx.DB
}

func NewPostgresReviewImageRepository(db *sqlx.DB) ReviewImageRepository {
	return &postgresReviewImageRepository{db: db}
}

// CreateCapped inserts the image only if its review has fewer than limit images. The review row is
// locked for the duration of the transaction so concurrent inserts for the same review serialize.
func (r *postgresReviewImageRepository) CreateCapped(ctx context.Context, image *model.ReviewImage, limit int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin review image tx: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM reviews WHERE id = $1 FOR UPDATE`, image.ReviewID); err != nil {
		return err
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM review_images WHERE review_id = $1`, image.ReviewID); err != nil {
		return err
	}

	if count >= limit {
		return ErrCapacityReached
	}

	query := `INSERT INTO review_images (review_id, url) VALUES ($1, $2) RETURNING id, created_at`
	if err := tx.QueryRowxContext(ctx, query, image.ReviewID, image.URL).Scan(&image.ID, &image.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresReviewImageRepository) CountByReview(ctx context.Context, reviewID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM review_images WHERE review_id = $1`, reviewID)
	return count, err
}

func (r *postgresReviewImageRepository) ListByReviewIDs(ctx context.Context, reviewIDs []uuid.UUID) ([]model.ReviewImage, error) {
	images := []model.ReviewImage{}
	if len(reviewIDs) == 0 {
		return images, nil
	}

	query, args, err := sqlx.In(`SELECT id, review_id, url, created_at FROM review_images WHERE review_id IN (?) ORDER BY created_at ASC, id ASC`, reviewIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...)
	return images, err
}

// AuthorOf follows the image to its review and returns the review's author.
func (r *postgresReviewImageRepository) AuthorOf(ctx context.Context, imageID uuid.UUID) (uuid.NullUUID, error) {
	var author uuid.NullUUID
	query := `
		SELECT r.user_id
		FROM review_images ri
		LEFT JOIN reviews r ON r.id = ri.review_id
		WHERE ri.id = $1
	`
	err := r.db.GetContext(ctx, &author, query, imageID)
	return author, err
}

func (r *postgresReviewImageRepository) Delete(ctx context.Context, imageID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM review_images WHERE id = $1`, imageID)
	return err
}
