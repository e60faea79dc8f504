package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lodging-service/internal/model"
)

const spotColumns = `id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at`

type SpotRepository interface {
	Create(ctx context.Context, spot *model.Spot) (*model.Spot, error)
	FindByID(ctx context.Context, spotID uuid.UUID) (*model.Spot, error)
	FindByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]model.Spot, error)
	List(ctx context.Context, limit, offset int) ([]model.Spot, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Spot, error)
	Update(ctx context.Context, spot *model.Spot) error
	Delete(ctx context.Context, spotID uuid.UUID) ([]uuid.UUID, error)
	OwnerOf(ctx context.Context, spotID uuid.UUID) (uuid.NullUUID, error)
	FindOwnerSummary(ctx context.Context, ownerID uuid.UUID) (*model.UserSummary, error)
}

type postgresSpotRepository struct {
	db *sqlx.DB
}

func NewPostgresSpotRepository(db *sqlx.DB) SpotRepository {
	return &postgresSpotRepository{db: db}
}

func (r *postgresSpotRepository) Create(ctx context.Context, spot *model.Spot) (*model.Spot, error) {
	query := `
		INSERT INTO spots (owner_id, address, city, state, country, lat, lng, name, description, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, price, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		spot.OwnerID, spot.Address, spot.City, spot.State, spot.Country,
		spot.Lat, spot.Lng, spot.Name, spot.Description, spot.Price,
	)
	err := row.Scan(&spot.ID, &spot.Price, &spot.CreatedAt, &spot.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return spot, nil
}

// FindByID returns nil without error when the spot does not exist.
func (r *postgresSpotRepository) FindByID(ctx context.Context, spotID uuid.UUID) (*model.Spot, error) {
	var spot model.Spot
	query := `SELECT ` + spotColumns + ` FROM spots WHERE id = $1`
	err := r.db.GetContext(ctx, &spot, query, spotID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &spot, nil
}

func (r *postgresSpotRepository) FindByIDs(ctx context.Context, spotIDs []uuid.UUID) ([]model.Spot, error) {
	spots := []model.Spot{}
	if len(spotIDs) == 0 {
		return spots, nil
	}

	query, args, err := sqlx.In(`SELECT `+spotColumns+` FROM spots WHERE id IN (?)`, spotIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &spots, r.db.Rebind(query), args...)
	return spots, err
}

func (r *postgresSpotRepository) List(ctx context.Context, limit, offset int) ([]model.Spot, error) {
	spots := []model.Spot{}
	query := `SELECT ` + spotColumns + ` FROM spots ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &spots, query, limit, offset)
	return spots, err
}

func (r *postgresSpotRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Spot, error) {
	spots := []model.Spot{}
	query := `SELECT ` + spotColumns + ` FROM spots WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &spots, query, ownerID)
	return spots, err
}

func (r *postgresSpotRepository) Update(ctx context.Context, spot *model.Spot) error {
	query := `
		UPDATE spots SET
			address = :address,
			city = :city,
			state = :state,
			country = :country,
			lat = :lat,
			lng = :lng,
			name = :name,
			description = :description,
			price = :price,
			updated_at = now()
		WHERE id = :id
		RETURNING price, updated_at
	`

	rows, err := r.db.NamedQueryContext(ctx, query, spot)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}

	return rows.Scan(&spot.Price, &spot.UpdatedAt)
}

// Delete removes the spot and returns the ids of the reviews that cascade with it. The spot row is
// locked first, which blocks new reviews until the delete commits. It returns sql.ErrNoRows when
// the spot does not exist.
func (r *postgresSpotRepository) Delete(ctx context.Context, spotID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin spot delete tx: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM spots WHERE id = $1 FOR UPDATE`, spotID); err != nil {
		return nil, err
	}

	reviewIDs := []uuid.UUID{}
	if err := tx.SelectContext(ctx, &reviewIDs, `SELECT id FROM reviews WHERE spot_id = $1`, spotID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spots WHERE id = $1`, spotID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return reviewIDs, nil
}

// OwnerOf returns sql.ErrNoRows when the spot does not exist.
func (r *postgresSpotRepository) OwnerOf(ctx context.Context, spotID uuid.UUID) (uuid.NullUUID, error) {
	var owner uuid.NullUUID
	err := r.db.GetContext(ctx, &owner, `SELECT owner_id FROM spots WHERE id = $1`, spotID)
	return owner, err
}

func (r *postgresSpotRepository) FindOwnerSummary(ctx context.Context, ownerID uuid.UUID) (*model.UserSummary, error) {
	var owner model.UserSummary
	err := r.db.GetContext(ctx, &owner, `SELECT id, first_name, last_name FROM users WHERE id = $1`, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}
