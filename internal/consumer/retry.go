package consumer

import (
	"context"
	"fmt"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

// Persister is satisfied by persist.Service.
type Persister interface {
	Persist(ctx context.Context, msg queue.Message) error
}

const (
	DefaultMaxAttempts = 3
	DefaultBackoffBase = time.Second
)

// PersistWithRetry drives one message through the attempt loop:
// Persisting(attempt=n) -> Done | Retrying | Failed. Backoff grows linearly
// with the attempt number (attempt x base). Cancellation is observed before
// each attempt and during the backoff sleep. A validation-class error is
// terminal immediately: redelivering a malformed message will not fix it.
func PersistWithRetry(ctx context.Context, p Persister, msg queue.Message, maxAttempts int, base time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if base <= 0 {
		base = DefaultBackoffBase
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		zlog.Info().
			Str("event_id", msg.ID).
			Str("user_id", msg.UserID).
			Str("type", msg.Type).
			Int("attempt", attempt).
			Msg("persisting message")

		err := p.Persist(ctx, msg)
		if err == nil {
			return nil
		}
		if domain.IsValidation(err) {
			zlog.Error().Err(err).Str("event_id", msg.ID).Msg("malformed message, not retrying")
			return err
		}
		if attempt == maxAttempts {
			return fmt.Errorf("persist event %s failed after %d attempts: %w", msg.ID, maxAttempts, err)
		}

		delay := time.Duration(attempt) * base
		zlog.Warn().
			Err(err).
			Str("event_id", msg.ID).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("persist failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
