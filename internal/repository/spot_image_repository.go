package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lodging-service/internal/model"
)

type SpotImageRepository interface {
	Create(ctx context.Context, image *model.SpotImage) error
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]model.SpotImage, error)
	ListBySpotIDs(ctx context.Context, spotIDs []uuid.UUID) ([]model.SpotImage, error)
	OwnerOf(ctx context.Context, imageID uuid.UUID) (uuid.NullUUID, error)
	Delete(ctx context.Context, imageID uuid.UUID) error
}

type postgresSpotImageRepository struct {
	db *sqlx.DB
}

func NewPostgresSpotImageRepository(db *sqlx.DB) SpotImageRepository {
	return &postgresSpotImageRepository{db: db}
}

func (r *postgresSpotImageRepository) Create(ctx context.Context, image *model.SpotImage) error {
	query := `INSERT INTO spot_images (spot_id, url, preview) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, image.SpotID, image.URL, image.Preview).Scan(&image.ID, &image.CreatedAt)
}

func (r *postgresSpotImageRepository) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]model.SpotImage, error) {
	images := []model.SpotImage{}
	query := `SELECT id, spot_id, url, preview, created_at FROM spot_images WHERE spot_id = $1 ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &images, query, spotID)
	return images, err
}

// ListBySpotIDs loads the images of several spots in one round trip, in insertion order.
func (r *postgresSpotImageRepository) ListBySpotIDs(ctx context.Context, spotIDs []uuid.UUID) ([]model.SpotImage, error) {
	images := []model.SpotImage{}
	if len(spotIDs) == 0 {
		return images, nil
	}

	query, args, err := sqlx.In(`SELECT id, spot_id, url, preview, created_at FROM spot_images WHERE spot_id IN (?) ORDER BY created_at ASC, id ASC`, spotIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...)
	return images, err
}

// OwnerOf follows the image to its spot. The owner is NULL when the parent spot row is gone,
// and sql.ErrNoRows is returned when the image itself does not exist.
func (r *postgresSpotImageRepository) OwnerOf(ctx context.Context, imageID uuid.UUID) (uuid.NullUUID, error) {
	var owner uuid.NullUUID
	query := `
		SELECT s.owner_id
		FROM spot_images si
		LEFT JOIN spots s ON s.id = si.spot_id
		WHERE si.id = $1
	`
	err := r.db.GetContext(ctx, &owner, query, imageID)
	return owner, err
}

func (r *postgresSpotImageRepository) Delete(ctx context.Context, imageID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM spot_images WHERE id = $1`, imageID)
	return err
}
