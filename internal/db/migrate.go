package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id bigserial PRIMARY KEY,
    firstname text NOT NULL,
    lastname text NOT NULL,
    username text NOT NULL UNIQUE,
    password text NOT NULL
);
`

// EnsureSchema creates the users table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, usersSchema)
	return err
}
