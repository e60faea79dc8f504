package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lodging-service/internal/model"
)

// ReviewWithAuthor is a review row joined with its author's name.
type ReviewWithAuthor struct {
	model.Review
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
}

func (r ReviewWithAuthor) Author() *model.UserSummary {
	return &model.UserSummary{ID: r.UserID, FirstName: r.AuthorFirstName, LastName: r.AuthorLastName}
}

// SpotRating is one star rating attributed to a spot.
type SpotRating struct {
	SpotID uuid.UUID `db:"spot_id"`
	Stars  int       `db:"stars"`
}

const reviewWithAuthorSelect = `
	SELECT r.id, r.user_id, r.spot_id, r.review, r.stars, r.created_at, r.updated_at,
		u.first_name AS author_first_name, u.last_name AS author_last_name
	FROM reviews r
	JOIN users u ON u.id = r.user_id
`

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	FindByID(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, reviewID uuid.UUID) error
	AuthorOf(ctx context.Context, reviewID uuid.UUID) (uuid.NullUUID, error)
	CheckIfUserReviewedSpot(ctx context.Context, userID, spotID uuid.UUID) (bool, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ReviewWithAuthor, error)
	RatingsBySpotIDs(ctx context.Context, spotIDs []uuid.UUID) ([]SpotRating, error)
}

type postgresReviewRepository struct {
	db *sqlx.DB
}

func NewPostgresReviewRepository(db *sqlx.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	query := `
		INSERT INTO reviews (spot_id, user_id, review, stars)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, review.SpotID, review.UserID, review.Review, review.Stars).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID returns nil without error when the review does not exist.
func (r *postgresReviewRepository) FindByID(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	var review model.Review
	query := `SELECT id, user_id, spot_id, review, stars, created_at, updated_at FROM reviews WHERE id = $1`
	err := r.db.GetContext(ctx, &review, query, reviewID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `UPDATE reviews SET review = $1, stars = $2, updated_at = now() WHERE id = $3 RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query, review.Review, review.Stars, review.ID).Scan(&review.UpdatedAt)
}

func (r *postgresReviewRepository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	return err
}

// AuthorOf returns sql.ErrNoRows when the review does not exist.
func (r *postgresReviewRepository) AuthorOf(ctx context.Context, reviewID uuid.UUID) (uuid.NullUUID, error) {
	var author uuid.NullUUID
	err := r.db.GetContext(ctx, &author, `SELECT user_id FROM reviews WHERE id = $1`, reviewID)
	return author, err
}

func (r *postgresReviewRepository) CheckIfUserReviewedSpot(ctx context.Context, userID, spotID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND spot_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, spotID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresReviewRepository) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]ReviewWithAuthor, error) {
	reviews := []ReviewWithAuthor{}
	query := reviewWithAuthorSelect + ` WHERE r.spot_id = $1 ORDER BY r.created_at ASC, r.id ASC`
	err := r.db.SelectContext(ctx, &reviews, query, spotID)
	return reviews, err
}

func (r *postgresReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ReviewWithAuthor, error) {
	reviews := []ReviewWithAuthor{}
	query := reviewWithAuthorSelect + ` WHERE r.user_id = $1 ORDER BY r.created_at ASC, r.id ASC`
	err := r.db.SelectContext(ctx, &reviews, query, userID)
	return reviews, err
}

func (r *postgresReviewRepository) RatingsBySpotIDs(ctx context.Context, spotIDs []uuid.UUID) ([]SpotRating, error) {
	ratings := []SpotRating{}
	if len(spotIDs) == 0 {
		return ratings, nil
	}

	query, args, err := sqlx.In(`SELECT spot_id, stars FROM reviews WHERE spot_id IN (?)`, spotIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &ratings, r.db.Rebind(query), args...)
	return ratings, err
}
