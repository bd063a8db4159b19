package telemetry

import "planner-api/core/logger"

// Event names tracked by the planner.
const (
	EventTaskCreated      = "task.created"
	EventTaskUpdated      = "task.updated"
	EventTaskDeleted      = "task.deleted"
	EventTimeBlockCreated = "timeblock.created"
	EventSlotSuggested    = "timeblock.slot_suggested"
	EventCalendarSync     = "calendar.sync"
	EventDigestGenerated  = "digest.generated"
)

// Track emits a telemetry event as a structured log line. The log pipeline
// is the delivery mechanism; there is no separate analytics sink.
func Track(event string, args ...any) {
	attrs := append([]any{"event", event}, args...)
	logger.Info("telemetry_event", attrs...)
}
