package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carhive/interaction-service/internal/application/tracking"
	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/transport/http/dto"
	"github.com/carhive/interaction-service/internal/transport/http/response"
	"github.com/carhive/interaction-service/internal/transport/http/validate"
)

type EventsHandler struct {
	svc *tracking.Service
}

func NewEventsHandler(svc *tracking.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// Create accepts an interaction and answers 202 once the derived events are
// queued; persistence happens asynchronously.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}

	action, ok := tracking.ParseAction(req.Action)
	if !ok {
		response.Err(w, r, domain.ErrValidationMeta("invalid request", map[string]string{
			"action": "must be ViewCar or ReserveCar",
		}))
		return
	}

	res, err := h.svc.Create(r.Context(), tracking.CreateCmd{
		UserID:      req.UserID,
		Action:      action,
		CarID:       req.CarID,
		Description: req.Description,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusAccepted, dto.CreateEventResp{
		PublishedCount: res.PublishedCount,
		EventIDs:       res.EventIDs,
	})
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := tracking.Query{
		Sort:     tracking.SortCreatedAtDesc,
		Page:     tracking.DefaultPage,
		PageSize: tracking.DefaultPageSize,
	}

	if v := q.Get("userId"); q.Has("userId") {
		query.UserID = &v
	}

	if v := q.Get("type"); v != "" {
		t, ok := domain.ParseEventType(v)
		if !ok {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"type": "must be PageView, Click or Purchase",
			}))
			return
		}
		query.Type = &t
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"from": "must be an RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		query.From = &tt
	}

	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"to": "must be an RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		query.To = &tt
	}

	if v := q.Get("sort"); v != "" {
		query.Sort = v
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"page": "must be an integer",
			}))
			return
		}
		query.Page = n
	}

	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"pageSize": "must be an integer",
			}))
			return
		}
		query.PageSize = n
	}

	res, err := h.svc.Get(r.Context(), query)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	items := make([]dto.EventResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, dto.ToEventResp(it))
	}

	response.Data(w, http.StatusOK, dto.GetEventsResp{
		Items:      items,
		TotalCount: res.TotalCount,
		Page:       res.Page,
		PageSize:   res.PageSize,
	})
}
