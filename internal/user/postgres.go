package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// queryTimeout bounds every database round trip so a dead Postgres
// surfaces as ErrUnavailable instead of a hung request.
const queryTimeout = 2 * time.Second

// PostgresRepository stores the users collection in Postgres via sqlx.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var users []User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, firstname, lastname, username, password
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

func (r *PostgresRepository) Search(ctx context.Context, contains string) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var users []User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, firstname, lastname, username, password
		FROM users
		WHERE firstname LIKE '%' || $1 || '%'
		   OR lastname  LIKE '%' || $1 || '%'
		ORDER BY id
	`, contains)
	if err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, firstname, lastname, username, password
		FROM users
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, firstname, lastname, username, password
		FROM users
		WHERE username = $1
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u User) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.GetContext(ctx, &u.ID, `
		INSERT INTO users (firstname, lastname, username, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Firstname, u.Lastname, u.Username, u.Password)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, u User) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out User
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO users (firstname, lastname, username, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE
		SET firstname = EXCLUDED.firstname,
		    lastname  = EXCLUDED.lastname
		RETURNING id, firstname, lastname, username, password
	`, u.Firstname, u.Lastname, u.Username, u.Password)
	if err != nil {
		return nil, wrap(err)
	}
	return &out, nil
}

func (r *PostgresRepository) Merge(ctx context.Context, username string, p Partial) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET firstname = COALESCE($2, firstname),
		    lastname  = COALESCE($3, lastname)
		WHERE username = $1
		RETURNING id, firstname, lastname, username, password
	`, username, p.Firstname, p.Lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx, &u, `
		DELETE FROM users
		WHERE username = $1
		RETURNING id, firstname, lastname, username, password
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
