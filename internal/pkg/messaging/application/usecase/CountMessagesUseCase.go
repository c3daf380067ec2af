package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// CountMessagesInput selects the conversation, the addressee and whether to
// restrict the count to unread messages.
type CountMessagesInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	UnreadOnly     bool
}

// CountMessagesUseCase counts messages addressed to a user in a
// conversation, by direct aggregation over the message rows.
type CountMessagesUseCase struct {
	Repo repository.MessagingRepository
}

func NewCountMessagesUseCase(repo repository.MessagingRepository) *CountMessagesUseCase {
	return &CountMessagesUseCase{Repo: repo}
}

func (uc *CountMessagesUseCase) Execute(ctx context.Context, in CountMessagesInput) (int64, error) {
	if in.ConversationID == uuid.Nil || in.UserID == uuid.Nil {
		return 0, fmt.Errorf("%w: conversation id and user id are required", messaging.ErrInvalid)
	}

	if _, err := uc.Repo.GetConversation(ctx, in.ConversationID); err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return 0, messaging.ErrConversationMissing
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	count, err := uc.Repo.CountMessages(ctx, in.ConversationID, in.UserID, in.UnreadOnly)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}
