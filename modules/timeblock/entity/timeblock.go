package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeBlockStatus is the lifecycle state of a scheduled block.
type TimeBlockStatus string

const (
	StatusTentative TimeBlockStatus = "tentative"
	StatusConfirmed TimeBlockStatus = "confirmed"
	StatusCompleted TimeBlockStatus = "completed"
	StatusCancelled TimeBlockStatus = "cancelled"
)

func (s TimeBlockStatus) IsValid() bool {
	switch s {
	case StatusTentative, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Provider indicates where a time block originated.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderICal   Provider = "ical"
	ProviderLocal  Provider = "local"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderICal, ProviderLocal:
		return true
	}
	return false
}

// TimeBlock is a scheduled interval on a user's calendar, either locally
// owned or mirrored from an external provider. (user_id, calendar_event_id)
// is unique when calendar_event_id is set; it is the sync upsert key.
type TimeBlock struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	TaskID          *uuid.UUID      `db:"task_id" json:"task_id,omitempty"`
	ChannelID       *uuid.UUID      `db:"channel_id" json:"channel_id,omitempty"`
	StartAt         time.Time       `db:"start_at" json:"start_at"`
	EndAt           time.Time       `db:"end_at" json:"end_at"`
	Status          TimeBlockStatus `db:"status" json:"status"`
	Provider        Provider        `db:"provider" json:"provider"`
	CalendarEventID *string         `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Location        *string         `db:"location" json:"location,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	RecurrenceRule  *string         `db:"recurrence_rule" json:"recurrence_rule,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the block occupies its interval. Cancelled blocks
// free the time they once held.
func (b *TimeBlock) IsActive() bool {
	return b.Status != StatusCancelled
}

// Slot returns the block's interval as a TimeSlot.
func (b *TimeBlock) Slot() TimeSlot {
	return TimeSlot{Start: b.StartAt, End: b.EndAt}
}

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// slots where one's End equals the other's Start do not overlap. This
// predicate is the single source of truth for conflict detection.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
