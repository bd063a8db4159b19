package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner-api/core/constants"
	coreentity "planner-api/core/entity"
	"planner-api/core/errors"
	"planner-api/core/logger"
	"planner-api/core/telemetry"
	channelrepo "planner-api/modules/channel/repository"
	"planner-api/modules/sync/dto"
	"planner-api/modules/sync/entity"
	"planner-api/modules/sync/repository"
	tbentity "planner-api/modules/timeblock/entity"
	tbrepo "planner-api/modules/timeblock/repository"
)

type SyncService struct {
	integrations repository.IntegrationRepositoryInterface
	channels     channelrepo.ChannelRepositoryInterface
	blocks       tbrepo.TimeBlockRepositoryInterface
}

type SyncServiceInterface interface {
	GoogleConnectURL(userID uuid.UUID) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, userID uuid.UUID, code string) (*dto.IntegrationResponse, *errors.AppError)
	ConnectICal(ctx context.Context, userID uuid.UUID, feedURL string) (*dto.IntegrationResponse, *errors.AppError)
	Disconnect(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) *errors.AppError
	Status(ctx context.Context, userID uuid.UUID) ([]dto.IntegrationResponse, *errors.AppError)
	Poll(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) (*entity.SyncSummary, *errors.AppError)
	Reconcile(ctx context.Context, userID uuid.UUID, provider tbentity.Provider, events []entity.ExternalEvent, cursor, calendarID *string) (*entity.SyncSummary, *errors.AppError)
}

func NewSyncService(
	integrations repository.IntegrationRepositoryInterface,
	channels channelrepo.ChannelRepositoryInterface,
	blocks tbrepo.TimeBlockRepositoryInterface,
) SyncServiceInterface {
	return &SyncService{
		integrations: integrations,
		channels:     channels,
		blocks:       blocks,
	}
}

func (s *SyncService) Disconnect(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) *errors.AppError {
	if !provider.IsValid() || provider == tbentity.ProviderLocal {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid provider", nil)
	}
	if err := s.integrations.Delete(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrNotFound, "calendar not connected", err)
	}
	logger.Info("calendar_disconnected", "user_id", userID.String(), "provider", string(provider))
	return nil
}

func (s *SyncService) Status(ctx context.Context, userID uuid.UUID) ([]dto.IntegrationResponse, *errors.AppError) {
	integrations, err := s.integrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list integrations", err)
	}
	return dto.ToIntegrationResponses(integrations, time.Now()), nil
}

// Poll fetches the upcoming events from the user's connected provider and
// reconciles them into local time blocks.
func (s *SyncService) Poll(ctx context.Context, userID uuid.UUID, provider tbentity.Provider) (*entity.SyncSummary, *errors.AppError) {
	integration, err := s.integrations.GetByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load integration", err)
	}
	if integration == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "calendar not connected", nil)
	}

	windowStart := time.Now().UTC()
	windowEnd := windowStart.AddDate(0, 0, constants.SyncLookaheadDays)

	var events []entity.ExternalEvent
	var appErr *errors.AppError
	var calendarID *string
	switch provider {
	case tbentity.ProviderGoogle:
		primary := "primary"
		calendarID = &primary
		events, appErr = s.fetchGoogleEvents(ctx, integration, windowStart, windowEnd)
	case tbentity.ProviderICal:
		calendarID = integration.ICalURL
		events, appErr = s.fetchICalEvents(ctx, integration, windowStart, windowEnd)
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid provider", nil)
	}
	if appErr != nil {
		return nil, appErr
	}

	// Pull passes are cursorless; the provider window is re-fetched whole.
	return s.Reconcile(ctx, userID, provider, events, nil, calendarID)
}

// Reconcile upserts external events into local time blocks keyed by
// (user_id, calendar_event_id) and merges the sync bookkeeping into the
// integration's sync_state. The cursor is an opaque token echoed back from
// the caller; it is merged into sync_state and returned in the summary.
// Reconcile never deletes local blocks; events that disappear upstream
// simply stop being refreshed.
func (s *SyncService) Reconcile(ctx context.Context, userID uuid.UUID, provider tbentity.Provider, events []entity.ExternalEvent, cursor, calendarID *string) (*entity.SyncSummary, *errors.AppError) {
	integration, err := s.integrations.GetByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load integration", err)
	}
	if integration == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "calendar not connected", nil)
	}

	now := time.Now().UTC()
	summary := &entity.SyncSummary{
		SyncAt:     now,
		Cursor:     cursor,
		TimeBlocks: []tbentity.TimeBlock{},
	}
	channelByCalendar := map[string]*uuid.UUID{}

	for i := range events {
		ev := &events[i]
		if ev.CalendarEventID == "" || !ev.EndAt.After(ev.StartAt) {
			summary.Skipped++
			continue
		}

		channelID, cached := channelByCalendar[ev.CalendarID]
		if !cached && ev.CalendarID != "" {
			channel, err := s.channels.GetByTargetCalendarID(ctx, userID, ev.CalendarID)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrGetFailed, "failed to resolve channel", err)
			}
			if channel != nil {
				channelID = &channel.ID
			}
			channelByCalendar[ev.CalendarID] = channelID
		}

		existing, err := s.blocks.GetByCalendarEventID(ctx, userID, ev.CalendarEventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "failed to look up mirrored block", err)
		}

		eventID := ev.CalendarEventID
		block := &tbentity.TimeBlock{
			UserID:          userID,
			ChannelID:       channelID,
			StartAt:         ev.StartAt,
			EndAt:           ev.EndAt,
			Status:          mapExternalStatus(ev.Status),
			Provider:        provider,
			CalendarEventID: &eventID,
			Location:        ev.Location,
			Notes:           ev.Notes,
			RecurrenceRule:  ev.RecurrenceRule,
		}

		upserted, err := s.blocks.UpsertExternal(ctx, block)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to upsert mirrored block", err)
		}
		summary.TimeBlocks = append(summary.TimeBlocks, *upserted)
		if existing == nil {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	summary.Synced = len(summary.TimeBlocks)

	state := coreentity.JSONB{}
	for k, v := range integration.SyncState {
		state[k] = v
	}
	state["lastSyncAt"] = now.Format(time.RFC3339)
	state["eventCount"] = summary.Synced
	if cursor != nil {
		state["cursor"] = *cursor
	} else {
		state["cursor"] = nil
	}
	if calendarID != nil {
		state["calendarId"] = *calendarID
	}
	if err := s.integrations.UpdateSyncState(ctx, integration.ID, state); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update sync state", err)
	}

	telemetry.Track(telemetry.EventCalendarSync,
		"user_id", userID.String(),
		"provider", string(provider),
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped)

	return summary, nil
}

// mapExternalStatus narrows the provider status vocabulary onto the local one.
// Unknown statuses land on confirmed, which matches how Google reports plain
// busy events.
func mapExternalStatus(status string) tbentity.TimeBlockStatus {
	switch status {
	case "tentative", "TENTATIVE":
		return tbentity.StatusTentative
	case "cancelled", "CANCELLED":
		return tbentity.StatusCancelled
	default:
		return tbentity.StatusConfirmed
	}
}
