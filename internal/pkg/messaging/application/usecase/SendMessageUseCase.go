package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
}

// SendMessageUseCase appends a message to a conversation and refreshes the
// conversation summary, atomically. The recipient is derived from the
// conversation's participants; the sender must be one of them regardless of
// what any outer access layer already checked.
type SendMessageUseCase struct {
	Repo repository.MessagingRepository
}

func NewSendMessageUseCase(repo repository.MessagingRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates, persists and returns the new message.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (messaging.Message, error) {
	if in.ConversationID == uuid.Nil || in.SenderID == uuid.Nil {
		return messaging.Message{}, fmt.Errorf("%w: conversation id and sender id are required", messaging.ErrInvalid)
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return messaging.Message{}, messaging.ErrConversationMissing
		}
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg, err := messaging.NewMessage(conv, in.SenderID, in.Content)
	if err != nil {
		return messaging.Message{}, err
	}

	if err := uc.Repo.AppendMessage(ctx, msg, msg.Preview()); err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return messaging.Message{}, messaging.ErrConversationMissing
		}
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
