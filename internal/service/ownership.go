package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ownerLookup resolves the user that owns a resource, following the parent row when needed.
// It returns sql.ErrNoRows when the resource itself is absent.
type ownerLookup func(ctx context.Context, id uuid.UUID) (uuid.NullUUID, error)

// authorize fails with NotFoundError when id does not resolve and ErrForbidden when the caller
// is not the owner. A NULL owner means the parent row is gone and is treated as not owned.
func authorize(ctx context.Context, resource string, id, callerID uuid.UUID, lookup ownerLookup) error {
	owner, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(resource)
		}
		return fmt.Errorf("resolving %s owner: %w", resource, err)
	}

	if !owner.Valid || owner.UUID != callerID {
		return ErrForbidden
	}

	return nil
}
