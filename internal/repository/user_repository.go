package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lodging-service/internal/model"
)

// UserConflicts reports which unique identifiers are already registered.
type UserConflicts struct {
	EmailTaken    bool `db:"email_taken"`
	UsernameTaken bool `db:"username_taken"`
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByCredential(ctx context.Context, credential string) (*model.User, error)
	FindConflicts(ctx context.Context, email, username string) (*UserConflicts, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (first_name, last_name, email, username, hashed_password) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, user.FirstName, user.LastName, user.Email, user.Username, user.HashedPassword).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

// FindByID returns nil without error when no user has the given id.
func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, first_name, last_name, email, username, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindByCredential looks a user up by username or email, including the password hash.
func (r *postgresUserRepository) FindByCredential(ctx context.Context, credential string) (*model.User, error) {
	var user model.User
	query := `SELECT id, first_name, last_name, email, username, hashed_password, created_at, updated_at FROM users WHERE username = $1 OR email = $1`
	err := r.db.GetContext(ctx, &user, query, credential)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindConflicts(ctx context.Context, email, username string) (*UserConflicts, error) {
	var conflicts UserConflicts
	query := `
		SELECT
			EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1)) AS email_taken,
			EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($2)) AS username_taken
	`
	if err := r.db.GetContext(ctx, &conflicts, query, email, username); err != nil {
		return nil, err
	}
	return &conflicts, nil
}
