package dto

import (
	"time"

	"planner-api/modules/focus/entity"
)

// ===================== Request DTOs =====================

type StartFocusSessionRequest struct {
	UserID      string  `json:"userId" validate:"required,uuid"`
	Kind        string  `json:"kind,omitempty"` // default focus
	TaskID      *string `json:"taskId,omitempty"`
	TimeBlockID *string `json:"timeBlockId,omitempty"`
}

// ===================== Response DTOs =====================

type FocusSessionResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	TaskID          *string    `json:"taskId"`
	TimeBlockID     *string    `json:"timeBlockId"`
	Kind            string     `json:"kind"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	Running         bool       `json:"running"`
	DurationSeconds int64      `json:"durationSeconds"`
}

// ===================== Mappers =====================

func ToFocusSessionResponse(s *entity.FocusSession, now time.Time) *FocusSessionResponse {
	resp := &FocusSessionResponse{
		ID:              s.ID.String(),
		UserID:          s.UserID.String(),
		Kind:            string(s.Kind),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		Running:         s.IsRunning(),
		DurationSeconds: int64(s.Duration(now).Seconds()),
	}
	if s.TaskID != nil {
		id := s.TaskID.String()
		resp.TaskID = &id
	}
	if s.TimeBlockID != nil {
		id := s.TimeBlockID.String()
		resp.TimeBlockID = &id
	}
	return resp
}

func ToFocusSessionResponses(sessions []entity.FocusSession, now time.Time) []FocusSessionResponse {
	out := make([]FocusSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *ToFocusSessionResponse(&sessions[i], now))
	}
	return out
}
