package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a mutex-guarded map. Used when no
// Redis address is configured, and in tests. Expired entries are
// evicted lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	return clone(s), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if time.Until(s.ExpiresAt) <= 0 {
		return m.Delete(context.Background(), s.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = clone(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, s := range m.sessions {
		if now.Before(s.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

// clone detaches the stored payload from the request-scoped handle,
// matching the copy a serializing store would make.
func clone(s *Session) *Session {
	return &Session{
		ID:        s.ID,
		Data:      maps.Clone(s.Data),
		ExpiresAt: s.ExpiresAt,
	}
}
