package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind distinguishes the daily from the weekly planning ritual.
type SessionKind string

const (
	KindDaily  SessionKind = "daily"
	KindWeekly SessionKind = "weekly"
)

func (k SessionKind) IsValid() bool {
	return k == KindDaily || k == KindWeekly
}

// PlanningSession records one planning ritual. A session is open until
// Complete stamps CompletedAt with the closing reflection.
type PlanningSession struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	UserID      uuid.UUID   `db:"user_id" json:"userId"`
	Kind        SessionKind `db:"kind" json:"kind"`
	PlannedFor  time.Time   `db:"planned_for" json:"plannedFor"`
	Intention   *string     `db:"intention" json:"intention"`
	Reflection  *string     `db:"reflection" json:"reflection"`
	CompletedAt *time.Time  `db:"completed_at" json:"completedAt"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

func (s *PlanningSession) IsCompleted() bool {
	return s.CompletedAt != nil
}
