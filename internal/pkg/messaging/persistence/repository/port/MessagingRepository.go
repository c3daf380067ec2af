package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
)

// MessagingRepository defines persistence operations for the messaging core.
//
// Creation methods follow the insert-then-reselect contract: the adapter
// attempts the insert under the table's uniqueness constraint and, when the
// row already exists, returns the winning row with created=false. A lost
// race where the winner cannot be re-read surfaces messaging.ErrConflict and
// is retried by the use-case layer.
type MessagingRepository interface {
	// FindIdentity returns the internal id mapped to externalID, or
	// messaging.ErrNotFound when no mapping exists yet.
	FindIdentity(ctx context.Context, externalID string) (uuid.UUID, error)

	// CreateIdentity persists the mapping unless one already exists for the
	// same external id, in which case the previously stored internal id is
	// returned and created is false.
	CreateIdentity(ctx context.Context, m messaging.IdentityMapping) (internalID uuid.UUID, created bool, err error)

	// FindConversationByPair looks up the conversation for a canonical
	// (low, high) participant pair. messaging.ErrNotFound when absent.
	FindConversationByPair(ctx context.Context, low, high uuid.UUID) (messaging.Conversation, error)

	// CreateConversation persists c unless a row for its canonical pair
	// already exists, in which case the existing row is returned and
	// created is false.
	CreateConversation(ctx context.Context, c messaging.Conversation) (conv messaging.Conversation, created bool, err error)

	// GetConversation fetches a conversation by id. messaging.ErrNotFound
	// when absent.
	GetConversation(ctx context.Context, id uuid.UUID) (messaging.Conversation, error)

	// AppendMessage inserts m and updates its conversation's last_message,
	// last_message_at and updated_at in a single transaction.
	AppendMessage(ctx context.Context, m messaging.Message, preview string) error

	// GetMessage fetches a message by id. messaging.ErrNotFound when absent.
	GetMessage(ctx context.Context, id uuid.UUID) (messaging.Message, error)

	// MarkMessageRead flips the read flag of one message, only where the
	// message is still unread and addressed to recipientID. Returns whether
	// a row actually changed.
	MarkMessageRead(ctx context.Context, messageID, recipientID uuid.UUID, at time.Time) (bool, error)

	// MarkConversationRead applies the same conditional flip to every
	// unread message addressed to recipientID in the conversation and
	// returns the number of rows changed.
	MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID, at time.Time) (int64, error)

	// CountMessages counts messages addressed to recipientID in the
	// conversation, restricted to unread ones when unreadOnly is set.
	CountMessages(ctx context.Context, conversationID, recipientID uuid.UUID, unreadOnly bool) (int64, error)

	// ListMessages returns messages of a conversation ordered by
	// (created_at DESC, id DESC) honoring limit/offset.
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]messaging.Message, error)

	// ListUserConversations returns conversations userID participates in,
	// newest activity first, each annotated with the user's unread count.
	ListUserConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.ConversationSummary, error)
}
