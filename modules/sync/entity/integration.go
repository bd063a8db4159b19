package entity

import (
	"time"

	"github.com/google/uuid"

	coreentity "planner-api/core/entity"
	tbentity "planner-api/modules/timeblock/entity"
)

// CalendarIntegration holds a user's connection to an external calendar
// source. Google connections carry OAuth tokens; ICS feeds carry a URL.
// SyncState is an opaque document merged non-destructively on every sync.
type CalendarIntegration struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	UserID         uuid.UUID         `db:"user_id" json:"userId"`
	Provider       tbentity.Provider `db:"provider" json:"provider"`
	AccessToken    *string           `db:"access_token" json:"-"`
	RefreshToken   *string           `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time        `db:"token_expires_at" json:"tokenExpiresAt"`
	ICalURL        *string           `db:"ical_url" json:"icalUrl"`
	SyncState      coreentity.JSONB  `db:"sync_state" json:"syncState"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
}

// ExternalEvent is the provider-neutral shape of a calendar event as the
// reconciler consumes it.
type ExternalEvent struct {
	CalendarEventID string
	CalendarID      string
	Title           string
	StartAt         time.Time
	EndAt           time.Time
	Status          string
	Location        *string
	Notes           *string
	RecurrenceRule  *string
}

// SyncSummary reports what a reconcile pass did, including every local block
// the pass touched and the echoed sync cursor.
type SyncSummary struct {
	Synced     int                  `json:"syncedCount"`
	Created    int                  `json:"created"`
	Updated    int                  `json:"updated"`
	Skipped    int                  `json:"skipped"`
	SyncAt     time.Time            `json:"lastSyncAt"`
	Cursor     *string              `json:"updatedCursor"`
	TimeBlocks []tbentity.TimeBlock `json:"timeblocks"`
}
