package persist

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

// EventWriter is the single-method write contract of the storage backends.
// Implementations classify uniqueness violations into domain.ErrDuplicate.
type EventWriter interface {
	Insert(ctx context.Context, e *domain.Event) error
}

type Service struct {
	writer EventWriter
}

func New(writer EventWriter) *Service { return &Service{writer: writer} }

// Persist reconstitutes the event under its original id and inserts it.
// A duplicate-key result is a no-op: redelivery of an already-persisted id is
// expected under at-least-once semantics. Every other failure propagates to
// the caller, which owns the retry policy.
func (s *Service) Persist(ctx context.Context, msg queue.Message) error {
	typ, ok := domain.ParseEventType(msg.Type)
	if !ok {
		return domain.ErrValidationMeta("malformed message", map[string]string{
			"type": "unknown event type: " + msg.Type,
		})
	}
	if strings.TrimSpace(msg.ID) == "" {
		return domain.ErrValidationMeta("malformed message", map[string]string{
			"id": "is required",
		})
	}

	e := domain.Reconstitute(msg.ID, msg.UserID, typ, msg.Description, msg.CreatedAt)

	err := s.writer.Insert(ctx, e)
	if err == nil {
		zlog.Info().Str("event_id", e.ID).Msg("event persisted")
		return nil
	}
	if domain.IsDuplicate(err) || looksLikeDuplicate(err) {
		zlog.Info().Str("event_id", e.ID).Msg("duplicate event ignored (already exists)")
		return nil
	}
	return err
}

// looksLikeDuplicate is the documented substring fallback for drivers the
// repositories do not classify natively.
func looksLikeDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
