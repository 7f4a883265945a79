package session

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that the backing store could not be reached
// within the operation deadline.
var ErrUnavailable = errors.New("session: store unavailable")

// Session is the server-side state linked to a client via the session
// cookie. Data holds arbitrary JSON-serializable values; handlers own
// the instance only for the lifetime of one request.
type Session struct {
	ID        string         `json:"session_id"`
	Data      map[string]any `json:"data"`
	ExpiresAt time.Time      `json:"expires_at"`

	isNew bool
	dirty bool
}

// New returns a fresh, unpersisted session.
func New(id string, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		Data:      make(map[string]any),
		ExpiresAt: time.Now().Add(ttl),
		isNew:     true,
	}
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Data[key]
	return v, ok
}

// Set writes a value and marks the session dirty so the middleware
// persists it after the handler chain completes.
func (s *Session) Set(key string, v any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = v
	s.dirty = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.Data[key]; !ok {
		return
	}
	delete(s.Data, key)
	s.dirty = true
}

// IsNew reports whether the session has never been persisted.
func (s *Session) IsNew() bool { return s.isNew }

// Dirty reports whether the payload was mutated since load.
func (s *Session) Dirty() bool { return s.dirty }

// Touch pushes the expiry forward by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store defines how sessions are stored and retrieved.
// Implementations must remain stateless and opaque; a Get miss is
// (nil, nil), never an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error

	// Len counts the live sessions in the store.
	Len(ctx context.Context) (int, error)
}
