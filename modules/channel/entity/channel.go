package entity

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can see blocks scheduled under a channel.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityShared
}

// Channel groups tasks and time blocks under a life area (work, health,
// side project). A channel may be bound to an external calendar via
// TargetCalendarID, which the sync reconciler uses to route events.
type Channel struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"userId"`
	Name             string     `db:"name" json:"name"`
	Slug             string     `db:"slug" json:"slug"`
	Color            *string    `db:"color" json:"color"`
	Visibility       Visibility `db:"visibility" json:"visibility"`
	TargetCalendarID *string    `db:"target_calendar_id" json:"targetCalendarId"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}
