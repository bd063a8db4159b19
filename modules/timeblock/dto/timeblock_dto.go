package dto

import (
	"time"

	"github.com/google/uuid"

	"planner-api/core/params"
	"planner-api/modules/timeblock/entity"
)

// ===================== Request DTOs =====================

// CreateTimeBlockRequest books an interval on a user's calendar.
type CreateTimeBlockRequest struct {
	UserID          string  `json:"userId" validate:"required,uuid"`
	StartAt         string  `json:"startAt" validate:"required"` // RFC3339
	EndAt           string  `json:"endAt" validate:"required"`   // RFC3339
	TaskID          *string `json:"taskId,omitempty"`
	ChannelID       *string `json:"channelId,omitempty"`
	Status          string  `json:"status,omitempty"`   // default tentative
	Provider        string  `json:"provider,omitempty"` // default local
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	RecurrenceRule  *string `json:"recurrenceRule,omitempty"`
}

// UpdateTimeBlockRequest is a PATCH body. Every field is tri-state: absent
// leaves the column untouched, null clears it, a value sets it.
type UpdateTimeBlockRequest struct {
	StartAt        params.UpdateField[time.Time] `json:"startAt"`
	EndAt          params.UpdateField[time.Time] `json:"endAt"`
	TaskID         params.UpdateField[uuid.UUID] `json:"taskId"`
	ChannelID      params.UpdateField[uuid.UUID] `json:"channelId"`
	Status         params.UpdateField[string]    `json:"status"`
	Provider       params.UpdateField[string]    `json:"provider"`
	Location       params.UpdateField[string]    `json:"location"`
	Notes          params.UpdateField[string]    `json:"notes"`
	RecurrenceRule params.UpdateField[string]    `json:"recurrenceRule"`
}

// SuggestSlotRequest asks for the next open slot of the given duration.
type SuggestSlotRequest struct {
	UserID             string  `json:"userId" validate:"required,uuid"`
	TaskID             *string `json:"taskId,omitempty"`
	ChannelID          *string `json:"channelId,omitempty"`
	DurationMinutes    int     `json:"durationMinutes" validate:"required,min=15,max=480"`
	WindowStart        *string `json:"windowStart,omitempty"` // RFC3339, default now
	WindowEnd          *string `json:"windowEnd,omitempty"`   // RFC3339, default windowStart + search window
	PreferredStartHour *int    `json:"preferredStartHour,omitempty"` // 0-23
	PreferredEndHour   *int    `json:"preferredEndHour,omitempty"`   // 1-23, > start
}

// ===================== Response DTOs =====================

type TimeBlockResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	TaskID          *string   `json:"taskId"`
	ChannelID       *string   `json:"channelId"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Status          string    `json:"status"`
	Provider        string    `json:"provider"`
	CalendarEventID *string   `json:"calendarEventId"`
	Location        *string   `json:"location"`
	Notes           *string   `json:"notes"`
	RecurrenceRule  *string   `json:"recurrenceRule"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ConflictDetails references the block a candidate interval collided with.
type ConflictDetails struct {
	ConflictingBlockID string    `json:"conflictingBlockId"`
	StartAt            time.Time `json:"startAt"`
	EndAt              time.Time `json:"endAt"`
	Status             string    `json:"status"`
}

// ===================== Mappers =====================

func ToTimeBlockResponse(b *entity.TimeBlock) *TimeBlockResponse {
	resp := &TimeBlockResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		Status:          string(b.Status),
		Provider:        string(b.Provider),
		CalendarEventID: b.CalendarEventID,
		Location:        b.Location,
		Notes:           b.Notes,
		RecurrenceRule:  b.RecurrenceRule,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.TaskID != nil {
		id := b.TaskID.String()
		resp.TaskID = &id
	}
	if b.ChannelID != nil {
		id := b.ChannelID.String()
		resp.ChannelID = &id
	}
	return resp
}

func ToTimeBlockResponses(blocks []entity.TimeBlock) []TimeBlockResponse {
	out := make([]TimeBlockResponse, 0, len(blocks))
	for i := range blocks {
		out = append(out, *ToTimeBlockResponse(&blocks[i]))
	}
	return out
}
