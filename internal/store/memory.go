package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nanafox/user-management-system/internal/models"
)

// Memory is an in-process Store used in dev mode and as a test double. It
// keeps insertion order so pagination matches the Postgres creation-order
// sort.
type Memory struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]int
	users []models.User
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[uuid.UUID]int)}
}

func (m *Memory) Insert(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[user.ID]; ok {
		return models.User{}, ErrDuplicateKey
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return models.User{}, ErrDuplicateKey
		}
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.byID[user.ID] = len(m.users)
	m.users = append(m.users, user)
	return user, nil
}

func (m *Memory) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return m.users[idx], nil
}

func (m *Memory) FindByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) FindPage(_ context.Context, skip, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page := []models.User{}
	if skip >= len(m.users) {
		return page, nil
	}
	end := skip + limit
	if end > len(m.users) {
		end = len(m.users)
	}
	page = append(page, m.users[skip:end]...)
	return page, nil
}

func (m *Memory) Update(_ context.Context, id uuid.UUID, params UpdateParams) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}

	if params.Username != nil {
		for _, u := range m.users {
			if u.Username == *params.Username && u.ID != id {
				return models.User{}, ErrDuplicateKey
			}
		}
	}

	u := m.users[idx]
	if params.Username != nil {
		u.Username = *params.Username
	}
	if params.Password != nil {
		u.Password = *params.Password
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[idx] = u
	return u, nil
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	m.users = append(m.users[:idx], m.users[idx+1:]...)
	for i := idx; i < len(m.users); i++ {
		m.byID[m.users[i].ID] = i
	}
	return nil
}

var _ Store = (*Memory)(nil)
