package jobs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"planner-api/core/logger"
	syncrepo "planner-api/modules/sync/repository"
	syncservice "planner-api/modules/sync/service"
	tbentity "planner-api/modules/timeblock/entity"
)

// CalendarSyncHandler refreshes external calendar mirrors. A targeted
// payload syncs one integration; an empty payload walks all of them.
type CalendarSyncHandler struct {
	Sync         syncservice.SyncServiceInterface
	Integrations syncrepo.IntegrationRepositoryInterface
}

func NewCalendarSyncHandler(sync syncservice.SyncServiceInterface, integrations syncrepo.IntegrationRepositoryInterface) *CalendarSyncHandler {
	return &CalendarSyncHandler{Sync: sync, Integrations: integrations}
}

func (h *CalendarSyncHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload CalendarSyncPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("CalendarSyncHandler:Payload", err)
			return err
		}
	}

	if payload.UserID != "" {
		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			logger.Error("CalendarSyncHandler:UserID", err)
			return err
		}
		return h.syncOne(ctx, userID, payload.Provider)
	}

	integrations, err := h.Integrations.ListAll(ctx)
	if err != nil {
		return err
	}

	failures := 0
	for i := range integrations {
		integration := &integrations[i]
		if err := h.syncOne(ctx, integration.UserID, integration.Provider); err != nil {
			failures++
		}
	}

	logger.Info("calendar_sync_run_completed",
		"integrations", len(integrations), "failures", failures)
	return nil
}

func (h *CalendarSyncHandler) syncOne(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) error {
	summary, appErr := h.Sync.Poll(ctx, userID, provider)
	if appErr != nil {
		logger.Error("CalendarSyncHandler:Poll", appErr,
			"user_id", userID.String(), "provider", string(provider))
		return appErr
	}

	logger.Info("calendar_sync_completed",
		"user_id", userID.String(),
		"provider", string(provider),
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped)
	return nil
}
