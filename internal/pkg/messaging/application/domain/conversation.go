package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the single thread between two participants. Participants
// are stored in canonical order (low < high by string comparison of the
// UUIDs) so the unordered pair {A,B} maps to exactly one row.
type Conversation struct {
	ID             uuid.UUID  `db:"id"`
	ParticipantLow uuid.UUID  `db:"participant_low"`
	ParticipantHi  uuid.UUID  `db:"participant_high"`
	LastMessage    *string    `db:"last_message"`
	LastMessageAt  *time.Time `db:"last_message_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// ConversationSummary is a Conversation annotated with the unread count for
// the user who listed it.
type ConversationSummary struct {
	Conversation
	UnreadCount int64
}

// CanonicalPair orders two participant ids into their canonical (low, high)
// form. The same pair is produced for (a,b) and (b,a); equal ids are
// rejected since a participant cannot converse with themselves.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID, err error) {
	if a == b {
		return uuid.Nil, uuid.Nil, ErrSelfConversation
	}
	if a.String() < b.String() {
		return a, b, nil
	}
	return b, a, nil
}

// NewConversation builds an unsaved Conversation for the canonical pair of
// the two given participants.
func NewConversation(a, b uuid.UUID) (Conversation, error) {
	low, high, err := CanonicalPair(a, b)
	if err != nil {
		return Conversation{}, err
	}
	now := time.Now().UTC()
	return Conversation{
		ID:             uuid.New(),
		ParticipantLow: low,
		ParticipantHi:  high,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// HasParticipant tells whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantLow == userID || c.ParticipantHi == userID
}

// OtherParticipant returns the participant that is not userID. The second
// return is false when userID is not part of the conversation at all.
func (c Conversation) OtherParticipant(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case c.ParticipantLow:
		return c.ParticipantHi, true
	case c.ParticipantHi:
		return c.ParticipantLow, true
	}
	return uuid.Nil, false
}
