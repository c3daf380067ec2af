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

// MarkMessageReadInput identifies the message and the user acting on it.
type MarkMessageReadInput struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
}

// MarkMessageReadUseCase flips a message's read flag exactly once. Only the
// recipient may do so; the sender is rejected outright rather than silently
// matching zero rows, so callers can distinguish the two cases.
type MarkMessageReadUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkMessageReadUseCase(repo repository.MessagingRepository) *MarkMessageReadUseCase {
	return &MarkMessageReadUseCase{Repo: repo}
}

// Execute returns true iff this call performed the unread -> read
// transition. Duplicate and concurrent calls return false with no error;
// the conditional update in the repository makes that inherent.
func (uc *MarkMessageReadUseCase) Execute(ctx context.Context, in MarkMessageReadInput) (bool, error) {
	if in.MessageID == uuid.Nil || in.UserID == uuid.Nil {
		return false, fmt.Errorf("%w: message id and user id are required", messaging.ErrInvalid)
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return false, messaging.ErrMessageMissing
		}
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID == in.UserID {
		return false, messaging.ErrSenderReadsOwn
	}

	changed, err := uc.Repo.MarkMessageRead(ctx, in.MessageID, in.UserID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return changed, nil
}
