package dto

import (
	"time"

	"planner-api/modules/planning/entity"
)

// ===================== Request DTOs =====================

type CreatePlanningSessionRequest struct {
	UserID     string  `json:"userId" validate:"required,uuid"`
	Kind       string  `json:"kind" validate:"required,oneof=daily weekly"`
	PlannedFor string  `json:"plannedFor" validate:"required"` // YYYY-MM-DD
	Intention  *string `json:"intention,omitempty"`
}

type CompletePlanningSessionRequest struct {
	Reflection *string `json:"reflection,omitempty"`
}

// ===================== Response DTOs =====================

type PlanningSessionResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Kind        string     `json:"kind"`
	PlannedFor  string     `json:"plannedFor"`
	Intention   *string    `json:"intention"`
	Reflection  *string    `json:"reflection"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ===================== Mappers =====================

func ToPlanningSessionResponse(s *entity.PlanningSession) *PlanningSessionResponse {
	return &PlanningSessionResponse{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Kind:        string(s.Kind),
		PlannedFor:  s.PlannedFor.Format("2006-01-02"),
		Intention:   s.Intention,
		Reflection:  s.Reflection,
		Completed:   s.IsCompleted(),
		CompletedAt: s.CompletedAt,
		CreatedAt:   s.CreatedAt,
	}
}

func ToPlanningSessionResponses(sessions []entity.PlanningSession) []PlanningSessionResponse {
	out := make([]PlanningSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *ToPlanningSessionResponse(&sessions[i]))
	}
	return out
}
