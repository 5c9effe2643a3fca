package directory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nanafox/user-management-system/internal/hash"
	"github.com/nanafox/user-management-system/internal/models"
	"github.com/nanafox/user-management-system/internal/store"
)

func newDirectory() *Directory {
	return New(store.NewMemory(), hash.NewBcrypt(bcrypt.MinCost))
}

func TestCreate_HashesPasswordAndActivates(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	user, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "jdoe", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "my_password", user.Password)
	assert.False(t, user.UpdatedAt.Before(user.CreatedAt))

	fetched, err := d.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Username, fetched.Username)
	assert.NotEqual(t, "my_password", fetched.Password)
}

func TestCreate_DuplicateUsernameConflicts(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	_, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	_, err = d.Create(ctx, "jdoe", "other_password")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetByID_Errors(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	_, err := d.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = d.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByUsername(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	created, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	fetched, err := d.GetByUsername(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	// exact match only
	_, err = d.GetByUsername(ctx, "JDOE")
	assert.ErrorIs(t, err, ErrNotFound)

	// usernames get no identifier-format validation
	_, err = d.GetByUsername(ctx, "non_existent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Pagination(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	empty, err := d.List(ctx, 0, 25)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 0; i < 120; i++ {
		_, err := d.Create(ctx, fmt.Sprintf("user_%03d", i), "password_ok")
		require.NoError(t, err)
	}

	// the 100-record ceiling holds no matter what the caller asks for
	page, err := d.List(ctx, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, page, 100)

	// default limit applies when none is given
	page, err = d.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, DefaultPageLimit)

	// creation order, exclusive-bound slicing
	page, err = d.List(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, "user_010", page[0].Username)
	assert.Equal(t, "user_014", page[4].Username)

	// negative skip falls back to the start
	page, err = d.List(ctx, -3, 5)
	require.NoError(t, err)
	assert.Equal(t, "user_000", page[0].Username)
}

func TestUpdate_UsernameOnlyKeepsPasswordHash(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	created, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	newName := "jdoe_updated"
	updated, err := d.Update(ctx, created.ID.String(), ByID, UpdateFields{Username: &newName})
	require.NoError(t, err)

	assert.Equal(t, "jdoe_updated", updated.Username)
	assert.Equal(t, created.Password, updated.Password)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// the old username no longer resolves
	_, err = d.GetByUsername(ctx, "jdoe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_PasswordOnlyKeepsUsername(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()
	hasher := hash.NewBcrypt(bcrypt.MinCost)

	created, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	newPassword := "new_password"
	updated, err := d.Update(ctx, created.ID.String(), ByID, UpdateFields{Password: &newPassword})
	require.NoError(t, err)

	assert.Equal(t, "jdoe", updated.Username)
	assert.NotEqual(t, created.Password, updated.Password)
	assert.NotEqual(t, "new_password", updated.Password)
	assert.True(t, hasher.Verify(updated.Password, "new_password"))
}

func TestUpdate_ByUsername(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	_, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	newName := "jdoe_updated"
	updated, err := d.Update(ctx, "jdoe", ByUsername, UpdateFields{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "jdoe_updated", updated.Username)

	_, err = d.Update(ctx, "ghost", ByUsername, UpdateFields{Username: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_IdentifierResolutionComesFirst(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	// a malformed id wins over whatever the payload holds
	bad := "also-invalid"
	_, err := d.Update(ctx, "not-a-uuid", ByID, UpdateFields{Username: &bad})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = d.Update(ctx, uuid.NewString(), ByID, UpdateFields{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_UsernameCollisionConflicts(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	_, err := d.Create(ctx, "first", "my_password")
	require.NoError(t, err)
	second, err := d.Create(ctx, "second", "my_password")
	require.NoError(t, err)

	taken := "first"
	_, err = d.Update(ctx, second.ID.String(), ByID, UpdateFields{Username: &taken})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	created, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, created.ID.String(), ByID))

	_, err = d.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.GetByUsername(ctx, "jdoe")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, d.Delete(ctx, created.ID.String(), ByID), ErrNotFound)
	assert.ErrorIs(t, d.Delete(ctx, "not-a-uuid", ByID), ErrInvalidID)
}

func TestDelete_ByUsername(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	_, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, "jdoe", ByUsername))
	assert.ErrorIs(t, d.Delete(ctx, "jdoe", ByUsername), ErrNotFound)
}

// failingStore forces store-level failures that are not sentinel values.
type failingStore struct {
	store.Store
	err error
}

func (f *failingStore) FindByID(context.Context, uuid.UUID) (models.User, error) {
	return models.User{}, f.err
}

func TestClassify_UnknownErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection reset")
	d := New(&failingStore{err: cause}, hash.NewBcrypt(bcrypt.MinCost))

	_, err := d.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// The end-to-end flow from the API contract: create, list, rename, old name
// gone, delete, gone.
func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newDirectory()

	created, err := d.Create(ctx, "jdoe", "my_password")
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	page, err := d.List(ctx, 0, 25)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, created.ID, page[0].ID)

	newName := "jdoe_updated"
	updated, err := d.Update(ctx, created.ID.String(), ByID, UpdateFields{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "jdoe_updated", updated.Username)
	assert.Equal(t, created.Password, updated.Password)

	_, err = d.GetByUsername(ctx, "jdoe")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, d.Delete(ctx, created.ID.String(), ByID))
	_, err = d.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}
