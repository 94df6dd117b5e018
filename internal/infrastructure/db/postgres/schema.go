package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL DEFAULT '',
    email              TEXT NOT NULL UNIQUE,
    password_hash      TEXT NOT NULL,
    profile_image_url  TEXT,
    role               TEXT NOT NULL DEFAULT 'member',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE TABLE IF NOT EXISTS tasks (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'pending',
    user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks(user_id);`,
}

// EnsureSchema creates the tables on first boot. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d: %w", i, err)
		}
	}
	return nil
}
