package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PgMessagingRepository implements the messaging repository on a pgx pool.
// The pool is handed in by the process entry point; the repository never
// opens connections of its own.
type PgMessagingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessagingRepository(pool *pgxpool.Pool) *PgMessagingRepository {
	return &PgMessagingRepository{pool: pool}
}

// Ensure interface is satisfied
var _ repository.MessagingRepository = (*PgMessagingRepository)(nil)

func (r *PgMessagingRepository) FindIdentity(ctx context.Context, externalID string) (uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, errors.New("PgMessagingRepository: nil pool")
	}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT internal_id FROM identity_mappings WHERE external_id = $1`,
		externalID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, messaging.ErrNotFound
	}
	return id, err
}

func (r *PgMessagingRepository) CreateIdentity(ctx context.Context, m messaging.IdentityMapping) (uuid.UUID, bool, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, false, errors.New("PgMessagingRepository: nil pool")
	}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO identity_mappings (external_id, internal_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING internal_id
	`, m.ExternalID, m.InternalID, m.CreatedAt).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) && !isUniqueViolation(err) {
		return uuid.Nil, false, err
	}

	// Lost the insert race: the winner's row must already be visible.
	winner, err := r.FindIdentity(ctx, m.ExternalID)
	if errors.Is(err, messaging.ErrNotFound) {
		return uuid.Nil, false, messaging.ErrConflict
	}
	return winner, false, err
}

func (r *PgMessagingRepository) FindConversationByPair(ctx context.Context, low, high uuid.UUID) (messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return messaging.Conversation{}, errors.New("PgMessagingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, participant_low, participant_high, last_message, last_message_at, created_at, updated_at
		FROM conversations
		WHERE participant_low = $1 AND participant_high = $2
	`, low, high)
	return scanConversation(row)
}

func (r *PgMessagingRepository) CreateConversation(ctx context.Context, c messaging.Conversation) (messaging.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return messaging.Conversation{}, false, errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO conversations (id, participant_low, participant_high, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (participant_low, participant_high) DO NOTHING
	`, c.ID, c.ParticipantLow, c.ParticipantHi, c.CreatedAt, c.UpdatedAt)
	if err != nil && !isUniqueViolation(err) {
		return messaging.Conversation{}, false, err
	}
	created := err == nil && ct.RowsAffected() == 1

	// Re-select either way: on conflict this reads the winner, on success it
	// confirms our own row.
	conv, err := r.FindConversationByPair(ctx, c.ParticipantLow, c.ParticipantHi)
	if errors.Is(err, messaging.ErrNotFound) {
		return messaging.Conversation{}, false, messaging.ErrConflict
	}
	return conv, created, err
}

func (r *PgMessagingRepository) GetConversation(ctx context.Context, id uuid.UUID) (messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return messaging.Conversation{}, errors.New("PgMessagingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, participant_low, participant_high, last_message, last_message_at, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`, id)
	return scanConversation(row)
}

// AppendMessage inserts the message and refreshes the conversation summary
// in one transaction so a reader never sees one without the other.
func (r *PgMessagingRepository) AppendMessage(ctx context.Context, m messaging.Message, preview string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, recipient_id, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`, m.ID, m.ConversationID, m.SenderID, m.RecipientID, m.Content, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return messaging.ErrConversationMissing
		}
		return err
	}

	ct, err := tx.Exec(ctx, `
		UPDATE conversations
		SET last_message = $2, last_message_at = $3, updated_at = $3
		WHERE id = $1
	`, m.ConversationID, preview, m.CreatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return messaging.ErrConversationMissing
	}
	return tx.Commit(ctx)
}

func (r *PgMessagingRepository) GetMessage(ctx context.Context, id uuid.UUID) (messaging.Message, error) {
	if r == nil || r.pool == nil {
		return messaging.Message{}, errors.New("PgMessagingRepository: nil pool")
	}
	var m messaging.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, conversation_id, sender_id, recipient_id, content, read, read_at, created_at
		FROM messages
		WHERE id = $1
	`, id).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.ReadAt, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Message{}, messaging.ErrNotFound
	}
	return m, err
}

// MarkMessageRead performs the conditional flip. The WHERE clause carries the
// whole idempotency story: a second caller matches zero rows and gets false.
func (r *PgMessagingRepository) MarkMessageRead(ctx context.Context, messageID, recipientID uuid.UUID, at time.Time) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET read = true, read_at = $3
		WHERE id = $1 AND recipient_id = $2 AND read = false
	`, messageID, recipientID, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *PgMessagingRepository) MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID, at time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET read = true, read_at = $3
		WHERE conversation_id = $1 AND recipient_id = $2 AND read = false
	`, conversationID, recipientID, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// CountMessages always aggregates over the message rows themselves; there is
// no maintained counter to drift from the read flags.
func (r *PgMessagingRepository) CountMessages(ctx context.Context, conversationID, recipientID uuid.UUID, unreadOnly bool) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessagingRepository: nil pool")
	}
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM messages
		WHERE conversation_id = $1 AND recipient_id = $2 AND (NOT $3::boolean OR read = false)
	`, conversationID, recipientID, unreadOnly).Scan(&count)
	return count, err
}

func (r *PgMessagingRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, recipient_id, content, read, read_at, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgMessagingRepository) ListUserConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.participant_low, c.participant_high, c.last_message, c.last_message_at,
		       c.created_at, c.updated_at,
		       (SELECT count(*) FROM messages m
		        WHERE m.conversation_id = c.id AND m.recipient_id = $1 AND m.read = false) AS unread_count
		FROM conversations c
		WHERE c.participant_low = $1 OR c.participant_high = $1
		ORDER BY c.last_message_at DESC NULLS LAST, c.updated_at DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []messaging.ConversationSummary
	for rows.Next() {
		var s messaging.ConversationSummary
		if err := rows.Scan(&s.ID, &s.ParticipantLow, &s.ParticipantHi, &s.LastMessage, &s.LastMessageAt,
			&s.CreatedAt, &s.UpdatedAt, &s.UnreadCount); err != nil {
			return nil, err
		}
		convs = append(convs, s)
	}
	return convs, rows.Err()
}

func scanConversation(row pgx.Row) (messaging.Conversation, error) {
	var c messaging.Conversation
	err := row.Scan(&c.ID, &c.ParticipantLow, &c.ParticipantHi, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Conversation{}, messaging.ErrNotFound
	}
	return c, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
