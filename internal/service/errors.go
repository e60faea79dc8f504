package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// NotFoundError reports that an addressed resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " couldn't be found"
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

var (
	ErrForbidden          = errors.New("forbidden")
	ErrImageLimitReached  = errors.New("maximum number of images for this resource was reached")
	ErrAlreadyReviewed    = errors.New("user already has a review for this spot")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageUnavailable = errors.New("image storage is not configured")
	ErrUnknownUser        = errors.New("session user no longer exists")
)

// missingParent maps a foreign key violation on insert to the error for the row it referenced,
// or returns nil. A valid session can outlive its user, and a spot can be deleted mid-request.
func missingParent(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return nil
	}

	switch {
	case strings.HasSuffix(pgErr.ConstraintName, "_owner_id_fkey"), strings.HasSuffix(pgErr.ConstraintName, "_user_id_fkey"):
		return ErrUnknownUser
	case strings.HasSuffix(pgErr.ConstraintName, "_spot_id_fkey"):
		return notFound("Spot")
	}
	return nil
}
