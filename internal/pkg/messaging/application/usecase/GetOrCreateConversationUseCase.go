package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// GetOrCreateConversationInput names the two participants; order is
// irrelevant, the pair is canonicalized before any storage access.
type GetOrCreateConversationInput struct {
	ParticipantA string
	ParticipantB string
}

// GetOrCreateConversationUseCase idempotently resolves the single
// conversation for an unordered pair of identities. Raw external ids are
// accepted and run through the normalizer first.
type GetOrCreateConversationUseCase struct {
	Repo      repository.MessagingRepository
	Normalize *NormalizeIdentityUseCase
}

func NewGetOrCreateConversationUseCase(repo repository.MessagingRepository, normalize *NormalizeIdentityUseCase) *GetOrCreateConversationUseCase {
	return &GetOrCreateConversationUseCase{Repo: repo, Normalize: normalize}
}

// Execute returns the conversation for the pair, creating it when absent.
// Repeated and concurrent calls for the same pair all land on one row.
func (uc *GetOrCreateConversationUseCase) Execute(ctx context.Context, in GetOrCreateConversationInput) (messaging.Conversation, error) {
	idA, err := uc.Normalize.Execute(ctx, NormalizeIdentityInput{ExternalID: in.ParticipantA})
	if err != nil {
		return messaging.Conversation{}, err
	}
	idB, err := uc.Normalize.Execute(ctx, NormalizeIdentityInput{ExternalID: in.ParticipantB})
	if err != nil {
		return messaging.Conversation{}, err
	}

	low, high, err := messaging.CanonicalPair(idA, idB)
	if err != nil {
		return messaging.Conversation{}, err
	}

	var conv messaging.Conversation
	err = retryOnConflict(ctx, func() error {
		existing, err := uc.Repo.FindConversationByPair(ctx, low, high)
		switch {
		case err == nil:
			conv = existing
			return nil
		case !errors.Is(err, messaging.ErrNotFound):
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		candidate, err := messaging.NewConversation(low, high)
		if err != nil {
			return err
		}
		stored, _, err := uc.Repo.CreateConversation(ctx, candidate)
		if err != nil {
			if errors.Is(err, messaging.ErrConflict) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		conv = stored
		return nil
	})
	return conv, err
}
