package usecase

import (
	"context"
	"errors"
	"time"

	messaging "github.com/flori92/FloService-sub000/internal/pkg/messaging/application/domain"
)

const (
	creationRetryAttempts = 3
	creationRetryBackoff  = 25 * time.Millisecond
)

// retryOnConflict runs fn up to creationRetryAttempts times, backing off
// between attempts, as long as it fails with messaging.ErrConflict. Conflicts
// are transient losses of an insert race, not domain errors; any other error
// stops the loop immediately.
func retryOnConflict(ctx context.Context, fn func() error) error {
	backoff := creationRetryBackoff
	var err error
	for attempt := 0; attempt < creationRetryAttempts; attempt++ {
		if err = fn(); !errors.Is(err, messaging.ErrConflict) {
			return err
		}
		if attempt == creationRetryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
