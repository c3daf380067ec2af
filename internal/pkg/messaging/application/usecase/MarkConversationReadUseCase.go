package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkConversationReadInput identifies the conversation and the reader.
type MarkConversationReadInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
}

// MarkConversationReadUseCase is the bulk variant of MarkMessageReadUseCase:
// every unread message addressed to the user in the conversation is flipped
// in one conditional update.
type MarkConversationReadUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkConversationReadUseCase(repo repository.MessagingRepository) *MarkConversationReadUseCase {
	return &MarkConversationReadUseCase{Repo: repo}
}

// Execute returns the number of messages actually flipped, 0 when none were
// unread. The outcome is defined entirely by the conditional update: a user
// with no unread messages addressed to them in the conversation, participant
// or not, simply flips zero rows.
func (uc *MarkConversationReadUseCase) Execute(ctx context.Context, in MarkConversationReadInput) (int64, error) {
	if in.ConversationID == uuid.Nil || in.UserID == uuid.Nil {
		return 0, fmt.Errorf("%w: conversation id and user id are required", messaging.ErrInvalid)
	}

	if _, err := uc.Repo.GetConversation(ctx, in.ConversationID); err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return 0, messaging.ErrConversationMissing
		}
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	count, err := uc.Repo.MarkConversationRead(ctx, in.ConversationID, in.UserID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}
