// Package store persists user records. Two implementations exist: Postgres
// for production and Memory for dev mode and tests. Both report absence and
// uniqueness violations through the same sentinel errors.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nanafox/user-management-system/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicateKey is returned when an insert or update collides with a
	// unique constraint.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// UpdateParams carries the fields of a partial update. Nil pointers mean
// "leave untouched"; Password must already be hashed by the caller.
type UpdateParams struct {
	Username *string
	Password *string
}

// Store is the persistence contract for user records. All mutating
// operations are atomic: they either fully commit or leave no trace.
type Store interface {
	// Insert persists a new user and returns it with the store-assigned
	// created_at/updated_at timestamps. Returns ErrDuplicateKey if the id or
	// username collides with an existing row.
	Insert(ctx context.Context, user models.User) (models.User, error)

	// FindByID returns the user with the given id or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)

	// FindByUsername returns the user with the exact username or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (models.User, error)

	// FindPage returns up to limit users starting at offset skip, ordered by
	// creation time.
	FindPage(ctx context.Context, skip, limit int) ([]models.User, error)

	// Update applies the supplied fields to the user with the given id,
	// refreshes updated_at, and returns the updated row. Returns ErrNotFound
	// if the row is gone and ErrDuplicateKey on a username collision.
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (models.User, error)

	// Delete removes the row permanently. Returns ErrNotFound if no row
	// matched.
	Delete(ctx context.Context, id uuid.UUID) error
}
