package credentials

import (
	"context"
	"errors"

	"user-service/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier is the pluggable credential-checking strategy: given a
// username/password pair it returns the matching user or a
// verification failure.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (*user.User, error)
}

// Service verifies credentials against a user repository with bcrypt
// hashes at rest.
type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Verify(
	ctx context.Context,
	username string,
	password string,
) (*user.User, error) {

	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, user.ErrNotFound) {
		// hide whether the user exists or not
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := VerifyPassword(u.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
