package tracking

import (
	"context"
	"fmt"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

type Action string

const (
	ActionViewCar    Action = "ViewCar"
	ActionReserveCar Action = "ReserveCar"
)

func ParseAction(s string) (Action, bool) {
	for _, a := range []Action{ActionViewCar, ActionReserveCar} {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	return "", false
}

type CreateCmd struct {
	UserID      string
	Action      Action
	CarID       string
	Description *string
}

type CreateResult struct {
	PublishedCount int
	EventIDs       []string
}

const (
	maxUserIDLen      = 100
	maxDescriptionLen = 500
)

func (s *Service) validateCreate(cmd CreateCmd) error {
	if strings.TrimSpace(cmd.UserID) == "" {
		return domain.ErrValidationMeta("invalid request", map[string]string{
			"userId": "is required",
		})
	}
	if len(cmd.UserID) > maxUserIDLen {
		return domain.ErrValidationMeta("invalid request", map[string]string{
			"userId": "must be 100 chars or less",
		})
	}
	if cmd.Action != ActionViewCar && cmd.Action != ActionReserveCar {
		return domain.ErrValidationMeta("invalid request", map[string]string{
			"action": "must be ViewCar or ReserveCar",
		})
	}
	carID := strings.ToLower(strings.TrimSpace(cmd.CarID))
	if carID == "" || !s.catalog.Has(carID) {
		return domain.ErrValidationMeta("invalid request", map[string]string{
			"carId": "must be a known car id",
		})
	}
	if cmd.Description != nil && len(*cmd.Description) > maxDescriptionLen {
		return domain.ErrValidationMeta("invalid request", map[string]string{
			"description": "must be 500 chars or less",
		})
	}
	return nil
}

// Create validates the request, derives 1-2 events, and publishes them as one
// ordered batch. A successful return means "accepted for publish", not
// "persisted": durability is the consumer's job.
func (s *Service) Create(ctx context.Context, cmd CreateCmd) (CreateResult, error) {
	if err := s.validateCreate(cmd); err != nil {
		return CreateResult{}, err
	}

	userID := strings.TrimSpace(cmd.UserID)
	carID := strings.ToLower(strings.TrimSpace(cmd.CarID))
	carName := s.catalog.Name(carID)
	now := s.clock.Now()

	custom := ""
	if cmd.Description != nil {
		custom = strings.TrimSpace(*cmd.Description)
	}

	var events []*domain.Event
	switch cmd.Action {
	case ActionViewCar:
		desc := custom
		if desc == "" {
			desc = fmt.Sprintf("Viewed %s %s", carID, carName)
		}
		events = []*domain.Event{
			domain.NewEvent(userID, domain.TypePageView, desc, now),
		}
	case ActionReserveCar:
		clickDesc := custom
		if clickDesc == "" {
			clickDesc = fmt.Sprintf("Clicked reserve for %s %s", carID, carName)
		}
		// The custom description only applies to the Click event; the
		// Purchase record always gets the canonical text.
		events = []*domain.Event{
			domain.NewEvent(userID, domain.TypeClick, clickDesc, now),
			domain.NewEvent(userID, domain.TypePurchase, fmt.Sprintf("Reserved %s %s", carID, carName), now),
		}
	default:
		// validateCreate already excludes this; kept as a guard
		return CreateResult{}, domain.ErrValidationMeta("invalid request", map[string]string{
			"action": "must be ViewCar or ReserveCar",
		})
	}

	msgs := make([]queue.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, queue.FromEvent(e))
	}

	zlog.Info().
		Int("event_count", len(msgs)).
		Str("user_id", userID).
		Msg("publishing derived events")

	ids, err := s.pub.PublishEvents(ctx, msgs)
	if err != nil {
		return CreateResult{}, err
	}

	return CreateResult{PublishedCount: len(ids), EventIDs: ids}, nil
}
