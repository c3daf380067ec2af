package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsInput carries the user and pagination window.
type ListConversationsInput struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// ListConversationsUseCase returns the user's conversations ordered by most
// recent activity, each with the user's unread count.
type ListConversationsUseCase struct {
	Repo repository.MessagingRepository
}

func NewListConversationsUseCase(repo repository.MessagingRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]messaging.ConversationSummary, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", messaging.ErrInvalid)
	}

	convs, err := uc.Repo.ListUserConversations(ctx, in.UserID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}
