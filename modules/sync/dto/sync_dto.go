package dto

import (
	"time"

	"planner-api/core/constants"
	"planner-api/modules/sync/entity"
)

// ===================== Request DTOs =====================

type GoogleCallbackRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Code   string `json:"code" validate:"required"`
}

type ConnectICalRequest struct {
	UserID  string `json:"userId" validate:"required,uuid"`
	ICalURL string `json:"icalUrl" validate:"required,url"`
}

// PollRequest is the optional body of a poll. A caller that already holds
// the provider's events pushes them here, along with the sync cursor the
// provider echoed; with no body the service fetches the window itself.
type PollRequest struct {
	Events     []PollEventRequest `json:"events"`
	Cursor     *string            `json:"cursor"`
	CalendarID *string            `json:"calendarId"`
}

type PollEventRequest struct {
	ID             string    `json:"id" validate:"required"`
	Title          string    `json:"title"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
	Status         string    `json:"status"`
	CalendarID     string    `json:"calendarId,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	RecurrenceRule *string   `json:"recurrenceRule,omitempty"`
}

// ===================== Response DTOs =====================

type ConnectURLResponse struct {
	URL string `json:"url"`
}

// IntegrationResponse is the sanitized view of an integration; tokens are
// never exposed.
type IntegrationResponse struct {
	ID         string         `json:"id"`
	Provider   string         `json:"provider"`
	ICalURL    *string        `json:"icalUrl,omitempty"`
	SyncState  map[string]any `json:"syncState"`
	Stale      bool           `json:"stale"`
	LastSyncAt *time.Time     `json:"lastSyncAt"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ===================== Mappers =====================

func ToExternalEvents(events []PollEventRequest) []entity.ExternalEvent {
	out := make([]entity.ExternalEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, entity.ExternalEvent{
			CalendarEventID: ev.ID,
			CalendarID:      ev.CalendarID,
			Title:           ev.Title,
			StartAt:         ev.StartAt,
			EndAt:           ev.EndAt,
			Status:          ev.Status,
			Location:        ev.Location,
			Notes:           ev.Notes,
			RecurrenceRule:  ev.RecurrenceRule,
		})
	}
	return out
}

func ToIntegrationResponse(integration *entity.CalendarIntegration, now time.Time) *IntegrationResponse {
	resp := &IntegrationResponse{
		ID:        integration.ID.String(),
		Provider:  string(integration.Provider),
		ICalURL:   integration.ICalURL,
		SyncState: integration.SyncState,
		Stale:     true,
		CreatedAt: integration.CreatedAt,
	}
	if raw, ok := integration.SyncState["lastSyncAt"].(string); ok {
		if lastSync, err := time.Parse(time.RFC3339, raw); err == nil {
			resp.LastSyncAt = &lastSync
			resp.Stale = now.Sub(lastSync) > constants.StaleSyncThreshold
		}
	}
	return resp
}

func ToIntegrationResponses(integrations []entity.CalendarIntegration, now time.Time) []IntegrationResponse {
	out := make([]IntegrationResponse, 0, len(integrations))
	for i := range integrations {
		out = append(out, *ToIntegrationResponse(&integrations[i], now))
	}
	return out
}
