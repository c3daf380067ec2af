package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
)

func TestNormalizeIsDeterministic(t *testing.T) {
	repo := newFakeRepo()
	uc := NewNormalizeIdentityUseCase(repo, nil)
	ctx := context.Background()

	first, err := uc.Execute(ctx, NormalizeIdentityInput{ExternalID: "tg-2"})
	if err != nil {
		t.Fatalf("first normalize failed: %v", err)
	}
	second, err := uc.Execute(ctx, NormalizeIdentityInput{ExternalID: "tg-2"})
	if err != nil {
		t.Fatalf("second normalize failed: %v", err)
	}
	if first != second {
		t.Errorf("normalize not deterministic: %s != %s", first, second)
	}
	if len(repo.identities) != 1 {
		t.Errorf("expected exactly one mapping, got %d", len(repo.identities))
	}
}

func TestNormalizeCanonicalPassthrough(t *testing.T) {
	repo := newFakeRepo()
	uc := NewNormalizeIdentityUseCase(repo, nil)

	id := uuid.New()
	got, err := uc.Execute(context.Background(), NormalizeIdentityInput{ExternalID: id.String()})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != id {
		t.Errorf("canonical id must pass through unchanged: %s != %s", got, id)
	}
	if len(repo.identities) != 0 {
		t.Error("passthrough must not persist a mapping")
	}
}

func TestNormalizeRejectsEmptyInput(t *testing.T) {
	uc := NewNormalizeIdentityUseCase(newFakeRepo(), nil)
	for _, raw := range []string{"", "   "} {
		if _, err := uc.Execute(context.Background(), NormalizeIdentityInput{ExternalID: raw}); !errors.Is(err, messaging.ErrInvalid) {
			t.Errorf("input %q: expected validation error, got %v", raw, err)
		}
	}
}

func TestNormalizeUsesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := NewNormalizeIdentityUseCase(repo, cache)
	ctx := context.Background()

	first, err := uc.Execute(ctx, NormalizeIdentityInput{ExternalID: "tg-9"})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	callsAfterFirst := repo.findIdentityCalls

	second, err := uc.Execute(ctx, NormalizeIdentityInput{ExternalID: "tg-9"})
	if err != nil {
		t.Fatalf("cached normalize failed: %v", err)
	}
	if second != first {
		t.Errorf("cached id differs: %s != %s", second, first)
	}
	if repo.findIdentityCalls != callsAfterFirst {
		t.Error("cache hit should not touch the repository")
	}
}

func TestNormalizeAbsorbsInsertRace(t *testing.T) {
	repo := newFakeRepo()
	repo.conflictIdentity = 1
	uc := NewNormalizeIdentityUseCase(repo, nil)

	id, err := uc.Execute(context.Background(), NormalizeIdentityInput{ExternalID: "race-1"})
	if err != nil {
		t.Fatalf("normalize should absorb a single conflict: %v", err)
	}
	if id == uuid.Nil {
		t.Error("expected a usable internal id")
	}
}

func TestNormalizeGivesUpAfterBoundedRetries(t *testing.T) {
	repo := newFakeRepo()
	repo.conflictIdentity = creationRetryAttempts + 1
	uc := NewNormalizeIdentityUseCase(repo, nil)

	if _, err := uc.Execute(context.Background(), NormalizeIdentityInput{ExternalID: "race-2"}); !errors.Is(err, messaging.ErrConflict) {
		t.Errorf("expected conflict error after retries exhausted, got %v", err)
	}
}

func TestNormalizeConcurrentSameExternalID(t *testing.T) {
	repo := newFakeRepo()
	uc := NewNormalizeIdentityUseCase(repo, nil)
	ctx := context.Background()

	const n = 10
	results := make(chan uuid.UUID, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := uc.Execute(ctx, NormalizeIdentityInput{ExternalID: "tg-42"})
			results <- id
			errs <- err
		}()
	}

	var ids []uuid.UUID
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent normalize failed: %v", err)
		}
		ids = append(ids, <-results)
	}
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("callers observed different internal ids: %s != %s", id, ids[0])
		}
	}
	if len(repo.identities) != 1 {
		t.Errorf("expected one mapping row, got %d", len(repo.identities))
	}
}
