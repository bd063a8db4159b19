package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	tbentity "planner-api/modules/timeblock/entity"
)

// Task type names registered with the queue.
const (
	TypeDailyDigest  = "digest:daily"
	TypeTaskRollover = "task:rollover"
	TypeHeartbeat    = "heartbeat"
	TypeCalendarSync = "calendar:sync"
)

// CalendarSyncPayload targets one user's integration. An empty payload
// means sync every integration.
type CalendarSyncPayload struct {
	UserID   string            `json:"userId,omitempty"`
	Provider tbentity.Provider `json:"provider,omitempty"`
}

// NewCalendarSyncTask enqueues a sync for a single user integration.
func NewCalendarSyncTask(userID string, provider tbentity.Provider) (*asynq.Task, error) {
	payload, err := json.Marshal(CalendarSyncPayload{UserID: userID, Provider: provider})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarSync, payload), nil
}
