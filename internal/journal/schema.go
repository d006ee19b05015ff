package journal

import (
	"context"
	"fmt"
)

// Timestamps are stored as unix nanoseconds so both backends compare them numerically.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		at_ns BIGINT NOT NULL,
		level TEXT NOT NULL,
		state TEXT NOT NULL,
		path TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		sender TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_at ON events(at_ns)`,
	`CREATE TABLE IF NOT EXISTS processed (
		fingerprint TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		state TEXT NOT NULL,
		at_ns BIGINT NOT NULL
	)`,
}

// Migrate creates the tables when missing. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
