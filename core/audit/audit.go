package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
)

// Entry is one audit-trail row describing a mutation.
type Entry struct {
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]any
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type recorder struct {
	db database.IDatabase
}

func NewRecorder(db database.IDatabase) Recorder {
	return &recorder{db: db}
}

func (r *recorder) Record(ctx context.Context, entry Entry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`
	if err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.EntityID, raw); err != nil {
		logger.Error("Audit:Record", "error", err, "action", entry.Action)
		return err
	}

	logger.Info("audit_log_recorded",
		"user_id", entry.UserID,
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
	)
	return nil
}

// NopRecorder discards entries; used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, entry Entry) error { return nil }
