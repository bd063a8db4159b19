package dto

import (
	"time"

	"github.com/google/uuid"

	"planner-api/core/params"
	"planner-api/modules/task/entity"
)

// ===================== Request DTOs =====================

type CreateTaskRequest struct {
	UserID          string   `json:"userId" validate:"required,uuid"`
	Title           string   `json:"title" validate:"required,max=255"`
	ChannelID       *string  `json:"channelId,omitempty"`
	Status          string   `json:"status,omitempty"` // default todo
	PriorityLevel   *int     `json:"priorityLevel,omitempty" validate:"omitempty,min=1,max=5"`
	Importance      *float64 `json:"importance,omitempty" validate:"omitempty,min=0,max=10"`
	Urgency         *float64 `json:"urgency,omitempty" validate:"omitempty,min=0,max=10"`
	PriorityScore   *float64 `json:"priorityScore,omitempty" validate:"omitempty,min=0,max=10"`
	DueAt           *string  `json:"dueAt,omitempty"` // RFC3339
	RichNotes       *string  `json:"richNotes,omitempty"`
	PlannedSessions []string `json:"plannedSessions,omitempty"`
}

// UpdateTaskRequest is a PATCH body. Fields are tri-state: absent leaves the
// column untouched, null clears it, a value sets it.
type UpdateTaskRequest struct {
	Title           params.UpdateField[string]    `json:"title"`
	ChannelID       params.UpdateField[uuid.UUID] `json:"channelId"`
	Status          params.UpdateField[string]    `json:"status"`
	PriorityLevel   params.UpdateField[int]       `json:"priorityLevel"`
	Importance      params.UpdateField[float64]   `json:"importance"`
	Urgency         params.UpdateField[float64]   `json:"urgency"`
	PriorityScore   params.UpdateField[float64]   `json:"priorityScore"`
	DueAt           params.UpdateField[time.Time] `json:"dueAt"`
	RichNotes       params.UpdateField[string]    `json:"richNotes"`
	PlannedSessions params.UpdateField[[]string]  `json:"plannedSessions"`
}

// ===================== Response DTOs =====================

type TaskResponse struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	ChannelID       *string        `json:"channelId"`
	Title           string         `json:"title"`
	Status          string         `json:"status"`
	PriorityLevel   int            `json:"priorityLevel"`
	Importance      *float64       `json:"importance"`
	Urgency         *float64       `json:"urgency"`
	PriorityScore   *float64       `json:"priorityScore"`
	DueAt           *time.Time     `json:"dueAt"`
	RichNotes       *string        `json:"richNotes"`
	PlannedSessions []string       `json:"plannedSessions"`
	RolloverState   map[string]any `json:"rolloverState"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ===================== Mappers =====================

func ToTaskResponse(t *entity.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:              t.ID.String(),
		UserID:          t.UserID.String(),
		Title:           t.Title,
		Status:          string(t.Status),
		PriorityLevel:   t.PriorityLevel,
		Importance:      t.Importance,
		Urgency:         t.Urgency,
		PriorityScore:   t.PriorityScore,
		DueAt:           t.DueAt,
		RichNotes:       t.RichNotes,
		PlannedSessions: t.PlannedSessions,
		RolloverState:   t.RolloverState,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if t.ChannelID != nil {
		id := t.ChannelID.String()
		resp.ChannelID = &id
	}
	return resp
}

func ToTaskResponses(tasks []entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *ToTaskResponse(&tasks[i]))
	}
	return out
}
