package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user: not found")
	ErrUsernameTaken = errors.New("user: username already taken")

	// ErrUnavailable reports that the backing persistence could not be
	// reached within the operation deadline.
	ErrUnavailable = errors.New("user: repository unavailable")
)

// Partial carries the fields of a merge update. Nil means "leave as is".
type Partial struct {
	Firstname *string
	Lastname  *string
}

// Repository is the users collection. Implementations are safe for
// concurrent use.
type Repository interface {
	List(ctx context.Context) ([]User, error)

	// Search matches the substring against firstname or lastname.
	Search(ctx context.Context, contains string) ([]User, error)

	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create assigns the id. A duplicate username is ErrUsernameTaken.
	Create(ctx context.Context, u User) (*User, error)

	// Upsert replaces firstname/lastname of the named user, creating
	// the record (with u.Password as the stored hash) when absent.
	Upsert(ctx context.Context, u User) (*User, error)

	// Merge applies the non-nil fields of p onto the existing record.
	Merge(ctx context.Context, username string, p Partial) (*User, error)

	// Delete removes the record and returns it.
	Delete(ctx context.Context, username string) (*User, error)
}
