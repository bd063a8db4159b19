package jobs

import (
	"context"

	"github.com/hibiken/asynq"

	"planner-api/core/cache"
	"planner-api/core/logger"
)

// HeartbeatHandler pings redis so liveness shows up in the logs even when
// the queue is otherwise idle.
type HeartbeatHandler struct {
	Cache cache.Cache
}

func NewHeartbeatHandler(c cache.Cache) *HeartbeatHandler {
	return &HeartbeatHandler{Cache: c}
}

func (h *HeartbeatHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if err := h.Cache.Ping(ctx); err != nil {
		logger.Error("HeartbeatHandler:ProcessTask", err)
		return err
	}
	logger.Debug("heartbeat_ok")
	return nil
}
