package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema mirrors the hosted tables. It is only applied when AUTO_MIGRATE is set,
// typically against a local database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS "Session" (
		id        UUID PRIMARY KEY,
		userid    UUID NOT NULL,
		coachtype TEXT NOT NULL,
		createdat TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS session_userid_createdat_idx ON "Session" (userid, createdat DESC)`,
	`CREATE TABLE IF NOT EXISTS "Message" (
		id        UUID PRIMARY KEY,
		sessionid UUID NOT NULL REFERENCES "Session"(id),
		role      TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		content   TEXT NOT NULL,
		createdat TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS message_sessionid_createdat_idx ON "Message" (sessionid, createdat ASC)`,
}

// Migrate creates the Session and Message tables if they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
