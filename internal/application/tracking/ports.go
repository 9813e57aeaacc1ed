package tracking

import (
	"context"
	"time"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

type Clock interface{ Now() time.Time }

// Publisher is the single-method publish contract shared by the in-memory
// queue and the AMQP publisher. Messages are published preserving input
// order; the returned ids mirror that order.
type Publisher interface {
	PublishEvents(ctx context.Context, msgs []queue.Message) ([]string, error)
}

// EventReader serves the filtered/paged read path. TotalCount is computed
// over the filter set before pagination.
type EventReader interface {
	Query(ctx context.Context, f Filter) ([]*domain.Event, int, error)
}

// Cache is an optional read-through cache for first-page queries.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}

// Filter is what reaches the repository after validation and normalization.
type Filter struct {
	UserID     string // empty = no filter
	Type       *domain.EventType
	From       *time.Time
	To         *time.Time
	Descending bool
	Page       int
	PageSize   int
}
