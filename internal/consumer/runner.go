package consumer

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/queue"
)

// Receiver is satisfied by queue.Memory.
type Receiver interface {
	Receive(ctx context.Context) (queue.Message, error)
}

// Runner drains the in-process queue: one message at a time, each message's
// retry sequence processed sequentially. A message that exhausts its retries
// is logged and dropped; with no broker behind the in-memory queue there is
// nowhere to redeliver from.
type Runner struct {
	src         Receiver
	persister   Persister
	maxAttempts int
	backoffBase time.Duration
}

func NewRunner(src Receiver, p Persister, maxAttempts int, backoffBase time.Duration) *Runner {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	return &Runner{src: src, persister: p, maxAttempts: maxAttempts, backoffBase: backoffBase}
}

// Run blocks until ctx is canceled.
func (r *Runner) Run(ctx context.Context) {
	zlog.Info().Msg("in-process consumer started")
	for {
		msg, err := r.src.Receive(ctx)
		if err != nil {
			zlog.Info().Msg("in-process consumer shutting down")
			return
		}
		if err := PersistWithRetry(ctx, r.persister, msg, r.maxAttempts, r.backoffBase); err != nil {
			if ctx.Err() != nil {
				return
			}
			zlog.Error().Err(err).Str("event_id", msg.ID).Msg("message processing failed")
		}
	}
}
