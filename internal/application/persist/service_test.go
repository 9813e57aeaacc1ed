package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

type memWriter struct {
	inserted []*domain.Event
	errs     []error // popped per call; nil entry = success
}

func (m *memWriter) Insert(ctx context.Context, e *domain.Event) error {
	var err error
	if len(m.errs) > 0 {
		err = m.errs[0]
		m.errs = m.errs[1:]
	}
	if err == nil {
		m.inserted = append(m.inserted, e)
	}
	return err
}

func testMessage() queue.Message {
	return queue.Message{
		ID:          "6f1e9b1c-0000-4000-8000-000000000001",
		UserID:      "user-1",
		Type:        "PageView",
		Description: "Viewed car-1 Toyota Corolla",
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPersist_ReconstitutesUnderOriginalID(t *testing.T) {
	w := &memWriter{}
	svc := New(w)

	err := svc.Persist(context.Background(), testMessage())
	assert.NoError(t, err)
	assert.Len(t, w.inserted, 1)

	e := w.inserted[0]
	assert.Equal(t, "6f1e9b1c-0000-4000-8000-000000000001", e.ID)
	assert.Equal(t, domain.TypePageView, e.Type)
	assert.Equal(t, "user-1", e.UserID)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
}

func TestPersist_DuplicateIsNoOp(t *testing.T) {
	t.Run("classified_duplicate", func(t *testing.T) {
		w := &memWriter{errs: []error{domain.ErrDuplicate}}
		err := New(w).Persist(context.Background(), testMessage())
		assert.NoError(t, err)
		assert.Empty(t, w.inserted)
	})

	t.Run("substring_fallback_unique", func(t *testing.T) {
		w := &memWriter{errs: []error{errors.New("constraint failed: UNIQUE constraint failed: events.id")}}
		err := New(w).Persist(context.Background(), testMessage())
		assert.NoError(t, err)
	})

	t.Run("substring_fallback_duplicate_key", func(t *testing.T) {
		w := &memWriter{errs: []error{errors.New(`pq: duplicate key value violates unique constraint "events_pkey"`)}}
		err := New(w).Persist(context.Background(), testMessage())
		assert.NoError(t, err)
	})
}

func TestPersist_IdempotentReplay(t *testing.T) {
	w := &memWriter{errs: []error{nil, domain.ErrDuplicate}}
	svc := New(w)
	msg := testMessage()

	assert.NoError(t, svc.Persist(context.Background(), msg))
	assert.NoError(t, svc.Persist(context.Background(), msg))
	assert.Len(t, w.inserted, 1)
}

func TestPersist_OtherErrorsPropagate(t *testing.T) {
	storeDown := errors.New("pq: connection refused")
	w := &memWriter{errs: []error{storeDown}}

	err := New(w).Persist(context.Background(), testMessage())
	assert.ErrorIs(t, err, storeDown)
}

func TestPersist_MalformedMessage(t *testing.T) {
	t.Run("unknown_type", func(t *testing.T) {
		w := &memWriter{}
		msg := testMessage()
		msg.Type = "Teleport"

		err := New(w).Persist(context.Background(), msg)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, w.inserted)
	})

	t.Run("missing_id", func(t *testing.T) {
		w := &memWriter{}
		msg := testMessage()
		msg.ID = "  "

		err := New(w).Persist(context.Background(), msg)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, w.inserted)
	})
}
