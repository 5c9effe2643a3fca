// Package directory is the orchestration layer over the user store: it
// resolves users by id or username, owns error classification, and hashes
// passwords on the way in. It holds no cross-call state and is safe for
// concurrent use; uniqueness races are settled by the store's constraint.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nanafox/user-management-system/internal/hash"
	"github.com/nanafox/user-management-system/internal/models"
	"github.com/nanafox/user-management-system/internal/store"
)

// LookupMode selects the key a user is resolved by.
type LookupMode int

const (
	// ByID resolves a user by their UUID.
	ByID LookupMode = iota
	// ByUsername resolves a user by exact username match.
	ByUsername
)

const (
	// DefaultPageLimit is the page size used when the caller supplies none.
	DefaultPageLimit = 25
	// MaxPageLimit caps the page size no matter what the caller asks for.
	MaxPageLimit = 100
)

// UpdateFields carries a partial update. Nil pointers leave the stored value
// untouched; Password is plaintext and gets hashed before persistence.
type UpdateFields struct {
	Username *string
	Password *string
}

// Directory exposes all user reads and mutations.
type Directory struct {
	store  store.Store
	hasher hash.Hasher
}

// New returns a Directory over the given store and hasher.
func New(s store.Store, h hash.Hasher) *Directory {
	return &Directory{store: s, hasher: h}
}

// Resolve looks up a user by the given identifier. In ByID mode the
// identifier must be a valid UUID, otherwise ErrInvalidID is returned before
// the store is consulted. A miss in either mode yields ErrNotFound.
func (d *Directory) Resolve(ctx context.Context, identifier string, mode LookupMode) (models.User, error) {
	switch mode {
	case ByID:
		id, err := uuid.Parse(identifier)
		if err != nil {
			return models.User{}, ErrInvalidID
		}
		user, err := d.store.FindByID(ctx, id)
		if err != nil {
			return models.User{}, classify(err)
		}
		return user, nil
	default:
		user, err := d.store.FindByUsername(ctx, identifier)
		if err != nil {
			return models.User{}, classify(err)
		}
		return user, nil
	}
}

// GetByID retrieves a user by their id.
func (d *Directory) GetByID(ctx context.Context, id string) (models.User, error) {
	return d.Resolve(ctx, id, ByID)
}

// GetByUsername retrieves a user by exact username match.
func (d *Directory) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return d.Resolve(ctx, username, ByUsername)
}

// List returns a page of users in creation order. A non-positive limit falls
// back to DefaultPageLimit and no request can exceed MaxPageLimit. An empty
// store yields an empty slice, not an error.
func (d *Directory) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return d.store.FindPage(ctx, skip, limit)
}

// Create hashes the password, assigns a fresh id, and persists the new user.
// Username uniqueness is not pre-checked; a collision surfaces from the
// store's constraint as ErrConflict, which avoids a check-then-insert race.
func (d *Directory) Create(ctx context.Context, username, password string) (models.User, error) {
	digest, err := d.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Password: digest,
		IsActive: true,
	}

	created, err := d.store.Insert(ctx, user)
	if err != nil {
		return models.User{}, classify(err)
	}
	return created, nil
}

// Update resolves the target first, so a malformed id yields ErrInvalidID
// even when the payload is also unusable. Only supplied fields change; a new
// password is hashed before storage and updated_at is always refreshed.
func (d *Directory) Update(ctx context.Context, identifier string, mode LookupMode, fields UpdateFields) (models.User, error) {
	user, err := d.Resolve(ctx, identifier, mode)
	if err != nil {
		return models.User{}, err
	}

	params := store.UpdateParams{Username: fields.Username}
	if fields.Password != nil {
		digest, err := d.hasher.Hash(*fields.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hashing password: %w", err)
		}
		params.Password = &digest
	}

	updated, err := d.store.Update(ctx, user.ID, params)
	if err != nil {
		return models.User{}, classify(err)
	}
	return updated, nil
}

// Delete resolves the target and hard-deletes it.
func (d *Directory) Delete(ctx context.Context, identifier string, mode LookupMode) error {
	user, err := d.Resolve(ctx, identifier, mode)
	if err != nil {
		return err
	}
	if err := d.store.Delete(ctx, user.ID); err != nil {
		return classify(err)
	}
	return nil
}

// classify translates store sentinels into the directory taxonomy. Store
// errors never leak past this boundary unclassified.
func classify(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return ErrConflict
	default:
		return err
	}
}
