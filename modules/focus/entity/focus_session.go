package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind separates deep-work stretches from the breaks between them.
type SessionKind string

const (
	KindFocus SessionKind = "focus"
	KindBreak SessionKind = "break"
)

func (k SessionKind) IsValid() bool {
	return k == KindFocus || k == KindBreak
}

// FocusSession is a timer span, optionally attached to the task or time
// block it was spent on. EndedAt is nil while the timer runs.
type FocusSession struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	UserID      uuid.UUID   `db:"user_id" json:"userId"`
	TaskID      *uuid.UUID  `db:"task_id" json:"taskId"`
	TimeBlockID *uuid.UUID  `db:"time_block_id" json:"timeBlockId"`
	Kind        SessionKind `db:"kind" json:"kind"`
	StartedAt   time.Time   `db:"started_at" json:"startedAt"`
	EndedAt     *time.Time  `db:"ended_at" json:"endedAt"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

func (s *FocusSession) IsRunning() bool {
	return s.EndedAt == nil
}

// Duration returns the elapsed span; for a running session it measures up
// to now.
func (s *FocusSession) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return end.Sub(s.StartedAt)
}
