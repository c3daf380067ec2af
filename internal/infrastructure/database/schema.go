package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is the messaging core's full persisted surface. Every statement
// is idempotent so EnsureSchema can run on every startup.
//
// The two UNIQUE constraints are load-bearing: concurrent first-time
// creation of an identity mapping or of a conversation pair is resolved by
// insert-on-conflict against them, not by locks.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS identity_mappings (
		external_id TEXT PRIMARY KEY,
		internal_id UUID NOT NULL UNIQUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id               UUID PRIMARY KEY,
		participant_low  UUID NOT NULL,
		participant_high UUID NOT NULL,
		last_message     TEXT,
		last_message_at  TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (participant_low, participant_high),
		CHECK (participant_low < participant_high)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id),
		sender_id       UUID NOT NULL,
		recipient_id    UUID NOT NULL,
		content         TEXT NOT NULL,
		read            BOOLEAN NOT NULL DEFAULT false,
		read_at         TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (sender_id <> recipient_id),
		CHECK (read = (read_at IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation_recency
		ON messages (conversation_id, created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_unread
		ON messages (conversation_id, recipient_id) WHERE read = false`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_participant_high
		ON conversations (participant_high)`,
}

// EnsureSchema creates the messaging tables and indexes if they are absent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}
