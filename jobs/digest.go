package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/core/telemetry"
)

// DigestHandler produces the upcoming-schedule digest. The digest itself is
// a structured log event per user; delivery (email, push) sits outside this
// service.
type DigestHandler struct {
	DB database.IDatabase
}

func NewDigestHandler(db database.IDatabase) *DigestHandler {
	return &DigestHandler{DB: db}
}

type digestRow struct {
	UserID     string `db:"user_id"`
	BlockCount int    `db:"block_count"`
}

func (h *DigestHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	now := time.Now().UTC()
	horizon := now.Add(24 * time.Hour)

	query := `SELECT user_id, COUNT(*) AS block_count
		FROM time_blocks
		WHERE status != 'cancelled' AND start_at >= $1 AND start_at < $2
		GROUP BY user_id`

	rows := []digestRow{}
	if err := h.DB.SelectContext(ctx, &rows, query, now, horizon); err != nil {
		logger.Error("DigestHandler:ProcessTask", err)
		return err
	}

	for _, row := range rows {
		telemetry.Track(telemetry.EventDigestGenerated,
			"user_id", row.UserID,
			"upcoming_blocks", row.BlockCount,
			"horizon_hours", 24)
	}

	logger.Info("digest_run_completed", "users", len(rows))
	return nil
}
