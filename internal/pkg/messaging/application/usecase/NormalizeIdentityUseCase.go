package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	cacheport "github.com/flori92/FloService-sub000/internal/infrastructure/cache/port"
	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/flori92/FloService-sub000/internal/pkg/messaging/persistence/repository/port"
)

// NormalizeIdentityInput carries the raw caller-supplied identity token.
type NormalizeIdentityInput struct {
	ExternalID string
}

// NormalizeIdentityUseCase maps an arbitrary external identifier to the
// stable internal UUID, creating the mapping on first use.
//
// The cache is optional (nil disables it) and safe here precisely because
// mappings are write-once: a cached value can never go stale.
type NormalizeIdentityUseCase struct {
	Repo     repository.MessagingRepository
	Cache    cacheport.Cache
	CacheTTL time.Duration
}

func NewNormalizeIdentityUseCase(repo repository.MessagingRepository, cache cacheport.Cache) *NormalizeIdentityUseCase {
	return &NormalizeIdentityUseCase{Repo: repo, Cache: cache, CacheTTL: 24 * time.Hour}
}

// Execute resolves the internal id for the given external identifier.
//
// Resolution order: canonical-format passthrough, cache, mapping table,
// then insert. A lost insert race is absorbed by re-reading the winning
// row inside a bounded retry loop.
func (uc *NormalizeIdentityUseCase) Execute(ctx context.Context, in NormalizeIdentityInput) (uuid.UUID, error) {
	if id, ok := messaging.ParseInternalID(in.ExternalID); ok {
		return id, nil
	}

	mapping, err := messaging.NewIdentityMapping(in.ExternalID)
	if err != nil {
		return uuid.Nil, err
	}

	if id, ok := uc.cacheGet(ctx, mapping.ExternalID); ok {
		return id, nil
	}

	var internalID uuid.UUID
	err = retryOnConflict(ctx, func() error {
		existing, err := uc.Repo.FindIdentity(ctx, mapping.ExternalID)
		switch {
		case err == nil:
			internalID = existing
			return nil
		case !errors.Is(err, messaging.ErrNotFound):
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		// Absent: insert our candidate. If a concurrent caller won, the
		// repository hands back the winning id and we discard ours.
		winner, _, err := uc.Repo.CreateIdentity(ctx, mapping)
		if err != nil {
			if errors.Is(err, messaging.ErrConflict) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		internalID = winner
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.cacheSet(ctx, mapping.ExternalID, internalID)
	return internalID, nil
}

func (uc *NormalizeIdentityUseCase) cacheGet(ctx context.Context, externalID string) (uuid.UUID, bool) {
	if uc.Cache == nil {
		return uuid.Nil, false
	}
	val, err := uc.Cache.Get(ctx, identityCacheKey(externalID))
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (uc *NormalizeIdentityUseCase) cacheSet(ctx context.Context, externalID string, id uuid.UUID) {
	if uc.Cache == nil {
		return
	}
	// best-effort; a failed cache write only costs a future DB lookup
	_ = uc.Cache.Set(ctx, identityCacheKey(externalID), id.String(), uc.CacheTTL)
}

func identityCacheKey(externalID string) string {
	return "identity:" + externalID
}
