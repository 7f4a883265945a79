package auth

import (
	"context"
	"errors"

	"user-service/internal/session"
	"user-service/internal/user"
)

// SessionKey is the reserved session-data key holding the serialized
// principal. Its presence is what makes a session authenticated.
const SessionKey = "auth.principal"

// Identity is the minimal user reference stored in session data.
// It contains facts only, no decisions.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Serialize reduces a verified user to the reference kept in the
// session payload.
func Serialize(u *user.User) Identity {
	return Identity{ID: u.ID, Username: u.Username}
}

// Login writes the serialized principal into the session. This is the
// only transition from anonymous to authenticated.
func Login(s *session.Session, u *user.User) {
	s.Set(SessionKey, Serialize(u))
}

// Logout removes the principal from the session.
func Logout(s *session.Session) {
	s.Delete(SessionKey)
}

// IdentityFromSession reads the serialized principal. It decodes both
// the in-process shape and the map shape a JSON store round trip
// produces.
func IdentityFromSession(s *session.Session) (Identity, bool) {
	v, ok := s.Get(SessionKey)
	if !ok {
		return Identity{}, false
	}

	switch t := v.(type) {
	case Identity:
		return t, true
	case map[string]any:
		id, okID := t["id"].(float64)
		username, okName := t["username"].(string)
		if !okID || !okName {
			return Identity{}, false
		}
		return Identity{ID: int64(id), Username: username}, true
	}
	return Identity{}, false
}

// Deserialize re-hydrates the full user behind the session's principal
// reference. A session without a principal, or one whose reference no
// longer matches a stored user, reads as anonymous (nil, nil); a stale
// reference is cleared rather than surfaced as an error.
func Deserialize(ctx context.Context, users user.Repository, s *session.Session) (*user.User, error) {
	ident, ok := IdentityFromSession(s)
	if !ok {
		return nil, nil
	}

	u, err := users.GetByID(ctx, ident.ID)
	if errors.Is(err, user.ErrNotFound) {
		s.Delete(SessionKey)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
