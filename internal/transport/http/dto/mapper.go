package dto

import "github.com/carhive/interaction-service/internal/domain"

func ToEventResp(e *domain.Event) EventResp {
	return EventResp{
		ID:          e.ID,
		UserID:      e.UserID,
		Type:        string(e.Type),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
