package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	coreentity "planner-api/core/entity"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// DefaultPriorityLevel is assigned when a task is created without one.
const DefaultPriorityLevel = 3

// Task is a unit of work a user plans time blocks against.
type Task struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	UserID          uuid.UUID        `db:"user_id" json:"userId"`
	ChannelID       *uuid.UUID       `db:"channel_id" json:"channelId"`
	Title           string           `db:"title" json:"title"`
	Status          TaskStatus       `db:"status" json:"status"`
	PriorityLevel   int              `db:"priority_level" json:"priorityLevel"`
	Importance      *float64         `db:"importance" json:"importance"`
	Urgency         *float64         `db:"urgency" json:"urgency"`
	PriorityScore   *float64         `db:"priority_score" json:"priorityScore"`
	DueAt           *time.Time       `db:"due_at" json:"dueAt"`
	RichNotes       *string          `db:"rich_notes" json:"richNotes"`
	PlannedSessions pq.StringArray   `db:"planned_sessions" json:"plannedSessions"`
	RolloverState   coreentity.JSONB `db:"rollover_state" json:"rolloverState"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsOpen reports whether the task still needs work.
func (t *Task) IsOpen() bool {
	return t.Status != StatusDone
}
