package messaging

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Message is an immutable log entry in a conversation. Only the read flag
// and its timestamp ever change after insert, and only once: read flips
// false -> true together with read_at being set, never back.
type Message struct {
	ID             uuid.UUID  `db:"id"`
	ConversationID uuid.UUID  `db:"conversation_id"`
	SenderID       uuid.UUID  `db:"sender_id"`
	RecipientID    uuid.UUID  `db:"recipient_id"`
	Content        string     `db:"content"`
	Read           bool       `db:"read"`
	ReadAt         *time.Time `db:"read_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

// NewMessage validates and assembles a message inside conv from senderID.
// The recipient is derived as the other participant, which keeps the
// sender<>recipient invariant true by construction.
func NewMessage(conv Conversation, senderID uuid.UUID, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyContent
	}
	recipientID, ok := conv.OtherParticipant(senderID)
	if !ok {
		return Message{}, ErrNotParticipant
	}
	return Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Preview shortens the content for the conversation summary fields.
func (m Message) Preview() string {
	const max = 120
	if len(m.Content) <= max {
		return m.Content
	}
	// don't split a multi-byte rune
	end := max
	for end > 0 && !utf8.RuneStart(m.Content[end]) {
		end--
	}
	return m.Content[:end] + "…"
}
