package queue

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// Memory is the in-process queue variant: unbounded, multiple writers, a
// single reader draining in FIFO order. Publishers never block; capacity is
// bounded only by process memory.
type Memory struct {
	mu     sync.Mutex
	items  []Message
	notify chan struct{}
}

func NewMemory() *Memory {
	return &Memory{notify: make(chan struct{}, 1)}
}

// PublishEvents appends all messages in input order and returns their ids in
// the same order. The in-process variant never fails under normal operation.
func (q *Memory) PublishEvents(ctx context.Context, msgs []Message) ([]string, error) {
	q.mu.Lock()
	q.items = append(q.items, msgs...)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
		zlog.Info().
			Str("event_id", m.ID).
			Str("user_id", m.UserID).
			Str("type", m.Type).
			Msg("event enqueued")
	}
	return ids, nil
}

// Receive blocks until a message is available or ctx is canceled.
func (q *Memory) Receive(ctx context.Context) (Message, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return m, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len reports the number of queued messages.
func (q *Memory) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
