package user

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository keeps the users collection in a mutex-guarded map.
// Used when no database DSN is configured, and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	byName map[string]User
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName: make(map[string]User),
		nextID: 1,
	}
}

func (m *MemoryRepository) List(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(func(User) bool { return true }), nil
}

func (m *MemoryRepository) Search(_ context.Context, contains string) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(func(u User) bool {
		return strings.Contains(u.Firstname, contains) || strings.Contains(u.Lastname, contains)
	}), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byName {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepository) Create(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[u.Username]; ok {
		return nil, ErrUsernameTaken
	}

	u.ID = m.nextID
	m.nextID++
	m.byName[u.Username] = u
	return &u, nil
}

func (m *MemoryRepository) Upsert(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byName[u.Username]
	if !ok {
		u.ID = m.nextID
		m.nextID++
		m.byName[u.Username] = u
		return &u, nil
	}

	existing.Firstname = u.Firstname
	existing.Lastname = u.Lastname
	m.byName[u.Username] = existing
	return &existing, nil
}

func (m *MemoryRepository) Merge(_ context.Context, username string, p Partial) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}

	if p.Firstname != nil {
		u.Firstname = *p.Firstname
	}
	if p.Lastname != nil {
		u.Lastname = *p.Lastname
	}
	m.byName[username] = u
	return &u, nil
}

func (m *MemoryRepository) Delete(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.byName, username)
	return &u, nil
}

// snapshot copies matching users out of the map, ordered by id so
// listings are stable.
func (m *MemoryRepository) snapshot(match func(User) bool) []User {
	out := make([]User, 0, len(m.byName))
	for _, u := range m.byName {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
