package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"planner-api/core/logger"
	taskservice "planner-api/modules/task/service"
)

// RolloverHandler carries open, overdue tasks forward to the current day.
type RolloverHandler struct {
	Tasks taskservice.TaskServiceInterface
}

func NewRolloverHandler(tasks taskservice.TaskServiceInterface) *RolloverHandler {
	return &RolloverHandler{Tasks: tasks}
}

func (h *RolloverHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	moved, appErr := h.Tasks.RolloverOverdue(ctx, time.Now().UTC())
	if appErr != nil {
		logger.Error("RolloverHandler:ProcessTask", appErr)
		return appErr
	}

	logger.Info("rollover_run_completed", "tasks_moved", moved)
	return nil
}
