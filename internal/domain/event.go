package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	TypePageView EventType = "PageView"
	TypeClick    EventType = "Click"
	TypePurchase EventType = "Purchase"
)

func (t EventType) Valid() bool {
	switch t {
	case TypePageView, TypeClick, TypePurchase:
		return true
	}
	return false
}

// ParseEventType matches case-insensitively ("pageview" -> PageView).
func ParseEventType(s string) (EventType, bool) {
	for _, t := range []EventType{TypePageView, TypeClick, TypePurchase} {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Event is an immutable record of a single user interaction. It is only
// constructible through NewEvent (fresh id) or Reconstitute (known id, used
// when replaying queue messages into storage).
type Event struct {
	ID          string
	UserID      string
	Type        EventType
	Description string
	CreatedAt   time.Time
}

func NewEvent(userID string, typ EventType, description string, now time.Time) *Event {
	return &Event{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        typ,
		Description: description,
		CreatedAt:   now.UTC(),
	}
}

// Reconstitute rehydrates an event under its original id. Keeping the id
// stable across redeliveries is what makes persistence idempotent.
func Reconstitute(id, userID string, typ EventType, description string, createdAt time.Time) *Event {
	return &Event{
		ID:          id,
		UserID:      userID,
		Type:        typ,
		Description: description,
		CreatedAt:   createdAt.UTC(),
	}
}
