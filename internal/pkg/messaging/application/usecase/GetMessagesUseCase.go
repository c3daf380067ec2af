package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch messages of a conversation.
type GetMessagesInput struct {
	ConversationID uuid.UUID
	Limit          int
	Offset         int
}

// GetMessagesUseCase fetches messages for a conversation, newest first.
// The (created_at, id) ordering is total, so pagination is stable across
// calls absent new writes.
type GetMessagesUseCase struct {
	Repo repository.MessagingRepository
}

func NewGetMessagesUseCase(repo repository.MessagingRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]messaging.Message, error) {
	if in.ConversationID == uuid.Nil {
		return nil, fmt.Errorf("%w: conversation id is required", messaging.ErrInvalid)
	}

	if _, err := uc.Repo.GetConversation(ctx, in.ConversationID); err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return nil, messaging.ErrConversationMissing
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
