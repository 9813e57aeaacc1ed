package queue

import (
	"time"

	"github.com/carhive/interaction-service/internal/domain"
)

// Message is the wire representation of an event between publisher and
// consumer. Field names are camelCase on the broker (JSON); the message id
// doubles as the broker-level MessageId.
type Message struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromEvent(e *domain.Event) Message {
	return Message{
		ID:          e.ID,
		UserID:      e.UserID,
		Type:        string(e.Type),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
