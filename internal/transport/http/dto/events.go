package dto

import "time"

type CreateEventReq struct {
	UserID      string  `json:"userId"`
	Action      string  `json:"action"`
	CarID       string  `json:"carId"`
	Description *string `json:"description,omitempty"`
}

type CreateEventResp struct {
	PublishedCount int      `json:"publishedCount"`
	EventIDs       []string `json:"eventIds"`
}

type EventResp struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GetEventsResp struct {
	Items      []EventResp `json:"items"`
	TotalCount int         `json:"totalCount"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
}
