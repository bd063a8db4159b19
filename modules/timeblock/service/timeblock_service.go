package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner-api/core/audit"
	"planner-api/core/config"
	"planner-api/core/constants"
	"planner-api/core/errors"
	"planner-api/core/params"
	"planner-api/core/telemetry"
	"planner-api/modules/timeblock/dto"
	"planner-api/modules/timeblock/entity"
	"planner-api/modules/timeblock/repository"
)

// TimeBlockService owns time-block scheduling: booking, conflict detection,
// and open-slot suggestion.
type TimeBlockService struct {
	repo       repository.TimeBlockRepositoryInterface
	slotFinder *SlotFinder
	auditor    audit.Recorder
}

type TimeBlockServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateTimeBlockRequest) (*dto.TimeBlockResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TimeBlockResponse, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, status *entity.TimeBlockStatus, taskID *uuid.UUID) ([]dto.TimeBlockResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTimeBlockRequest) (*dto.TimeBlockResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
	SuggestSlot(ctx context.Context, req *dto.SuggestSlotRequest) (*dto.TimeBlockResponse, *errors.AppError)
	CheckConflict(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) *errors.AppError
}

func NewTimeBlockService(repo repository.TimeBlockRepositoryInterface, auditor audit.Recorder) TimeBlockServiceInterface {
	return &TimeBlockService{
		repo:       repo,
		slotFinder: NewSlotFinder(),
		auditor:    auditor,
	}
}

// CheckConflict rejects a candidate interval that overlaps any of the user's
// non-cancelled blocks, optionally ignoring the block being updated. It is a
// read-then-decide pre-check; the partial unique exclusion constraint on
// time_blocks is the store-side backstop for concurrent writers.
func (s *TimeBlockService) CheckConflict(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) *errors.AppError {
	existing, err := s.repo.ListActiveOverlapping(ctx, userID, start, end)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load existing time blocks", err)
	}

	candidate := entity.TimeSlot{Start: start, End: end}
	for i := range existing {
		block := &existing[i]
		if excludeID != nil && block.ID == *excludeID {
			continue
		}
		if candidate.Overlaps(block.Slot()) {
			return errors.NewAppError(errors.ErrConflict, "time block overlaps an existing block", nil).
				WithDetails(dto.ConflictDetails{
					ConflictingBlockID: block.ID.String(),
					StartAt:            block.StartAt,
					EndAt:              block.EndAt,
					Status:             string(block.Status),
				})
		}
	}

	return nil
}

func (s *TimeBlockService) Create(ctx context.Context, req *dto.CreateTimeBlockRequest) (*dto.TimeBlockResponse, *errors.AppError) {
	userID, appErr := parseUUID(req.UserID, "userId")
	if appErr != nil {
		return nil, appErr
	}

	start, end, appErr := parseInterval(req.StartAt, req.EndAt)
	if appErr != nil {
		return nil, appErr
	}

	status := entity.StatusTentative
	if req.Status != "" {
		status = entity.TimeBlockStatus(req.Status)
		if !status.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
	}

	provider := entity.ProviderLocal
	if req.Provider != "" {
		provider = entity.Provider(req.Provider)
		if !provider.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid provider", nil)
		}
	}

	if appErr := s.CheckConflict(ctx, userID, start, end, nil); appErr != nil {
		return nil, appErr
	}

	block := &entity.TimeBlock{
		UserID:         userID,
		StartAt:        start,
		EndAt:          end,
		Status:         status,
		Provider:       provider,
		Location:       req.Location,
		Notes:          req.Notes,
		RecurrenceRule: req.RecurrenceRule,
	}

	if appErr := assignOptionalRef(req.TaskID, "taskId", &block.TaskID); appErr != nil {
		return nil, appErr
	}
	if appErr := assignOptionalRef(req.ChannelID, "channelId", &block.ChannelID); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create time block", err)
	}

	_ = s.auditor.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     "timeblock.created",
		EntityType: "time_block",
		EntityID:   created.ID,
		Metadata:   map[string]any{"startAt": created.StartAt, "endAt": created.EndAt},
	})
	telemetry.Track(telemetry.EventTimeBlockCreated, "user_id", userID, "block_id", created.ID)

	return dto.ToTimeBlockResponse(created), nil
}

func (s *TimeBlockService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TimeBlockResponse, *errors.AppError) {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get time block", err)
	}
	if block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "time block not found", nil)
	}
	return dto.ToTimeBlockResponse(block), nil
}

func (s *TimeBlockService) List(ctx context.Context, userID uuid.UUID, status *entity.TimeBlockStatus, taskID *uuid.UUID) ([]dto.TimeBlockResponse, *errors.AppError) {
	if status != nil && !status.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
	}

	blocks, err := s.repo.ListByUser(ctx, userID, status, taskID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list time blocks", err)
	}

	return dto.ToTimeBlockResponses(blocks), nil
}

func (s *TimeBlockService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTimeBlockRequest) (*dto.TimeBlockResponse, *errors.AppError) {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get time block", err)
	}
	if block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "time block not found", nil)
	}

	// Effective interval: supplied values fall back to the stored ones.
	start := block.StartAt
	end := block.EndAt
	params.ApplyValue(req.StartAt, &start)
	params.ApplyValue(req.EndAt, &end)
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "endAt must be after startAt", nil)
	}

	if statusStr, ok := req.Status.Get(); ok {
		status := entity.TimeBlockStatus(statusStr)
		if !status.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
		block.Status = status
	}

	if providerStr, ok := req.Provider.Get(); ok {
		provider := entity.Provider(providerStr)
		if !provider.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid provider", nil)
		}
		block.Provider = provider
	}

	// A block being updated must not conflict with its own prior self.
	// Cancelled blocks vacate their interval, so no check is needed for them.
	if block.IsActive() {
		if appErr := s.CheckConflict(ctx, block.UserID, start, end, &block.ID); appErr != nil {
			return nil, appErr
		}
	}

	block.StartAt = start
	block.EndAt = end
	params.ApplyPtr(req.TaskID, &block.TaskID)
	params.ApplyPtr(req.ChannelID, &block.ChannelID)
	params.ApplyPtr(req.Location, &block.Location)
	params.ApplyPtr(req.Notes, &block.Notes)
	params.ApplyPtr(req.RecurrenceRule, &block.RecurrenceRule)

	if err := s.repo.Update(ctx, block); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update time block", err)
	}

	return s.GetByID(ctx, id)
}

func (s *TimeBlockService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get time block", err)
	}
	if block == nil {
		return errors.NewAppError(errors.ErrNotFound, "time block not found", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete time block", err)
	}

	return nil
}

// SuggestSlot finds the first open slot for the requested duration and books
// it immediately as a tentative block. The conflict checker runs again on
// the found slot before the write, guarding against bookings that landed
// between scan and persist.
func (s *TimeBlockService) SuggestSlot(ctx context.Context, req *dto.SuggestSlotRequest) (*dto.TimeBlockResponse, *errors.AppError) {
	userID, appErr := parseUUID(req.UserID, "userId")
	if appErr != nil {
		return nil, appErr
	}

	if req.DurationMinutes < constants.MinSlotDurationMinutes || req.DurationMinutes > constants.MaxSlotDurationMinutes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "durationMinutes must be between 15 and 480", nil)
	}

	startHour, endHour, windowDays := schedulingDefaults()
	if req.PreferredStartHour != nil {
		startHour = *req.PreferredStartHour
	}
	if req.PreferredEndHour != nil {
		endHour = *req.PreferredEndHour
	}
	if startHour < 0 || startHour > 23 || endHour < 1 || endHour > 23 || endHour <= startHour {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "preferred hours must satisfy 0 <= start < end <= 23", nil)
	}

	windowStart := time.Now()
	if req.WindowStart != nil {
		t, err := time.Parse(time.RFC3339, *req.WindowStart)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid windowStart format", err)
		}
		windowStart = t
	}

	windowEnd := windowStart.AddDate(0, 0, windowDays)
	if req.WindowEnd != nil {
		t, err := time.Parse(time.RFC3339, *req.WindowEnd)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid windowEnd format", err)
		}
		windowEnd = t
	}
	if !windowEnd.After(windowStart) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "windowEnd must be after windowStart", nil)
	}

	busyBlocks, err := s.repo.ListActiveOverlapping(ctx, userID, windowStart, windowEnd)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to load busy blocks", err)
	}

	busy := make([]entity.TimeSlot, 0, len(busyBlocks))
	for i := range busyBlocks {
		busy = append(busy, busyBlocks[i].Slot())
	}

	slot, found := s.slotFinder.FindFirstOpenSlot(busy, SlotSearch{
		SearchStart:        windowStart,
		SearchEnd:          windowEnd,
		PreferredStartHour: startHour,
		PreferredEndHour:   endHour,
		Duration:           time.Duration(req.DurationMinutes) * time.Minute,
	})
	if !found {
		return nil, errors.NewAppError(errors.ErrConflict, "no open slot available within the search window", nil)
	}

	if appErr := s.CheckConflict(ctx, userID, slot.Start, slot.End, nil); appErr != nil {
		return nil, appErr
	}

	block := &entity.TimeBlock{
		UserID:   userID,
		StartAt:  slot.Start,
		EndAt:    slot.End,
		Status:   entity.StatusTentative,
		Provider: entity.ProviderLocal,
	}
	if appErr := assignOptionalRef(req.TaskID, "taskId", &block.TaskID); appErr != nil {
		return nil, appErr
	}
	if appErr := assignOptionalRef(req.ChannelID, "channelId", &block.ChannelID); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to persist suggested slot", err)
	}

	telemetry.Track(telemetry.EventSlotSuggested,
		"user_id", userID,
		"block_id", created.ID,
		"start_at", created.StartAt,
		"duration_minutes", req.DurationMinutes,
	)

	return dto.ToTimeBlockResponse(created), nil
}

func schedulingDefaults() (startHour, endHour, windowDays int) {
	startHour = constants.DefaultPreferredStartHour
	endHour = constants.DefaultPreferredEndHour
	windowDays = constants.DefaultSearchWindowDays

	if cfg, ok := config.GetSafe(); ok {
		startHour = cfg.Scheduler.PreferredStartHour
		endHour = cfg.Scheduler.PreferredEndHour
		windowDays = cfg.Scheduler.SearchWindowDays
	}
	return startHour, endHour, windowDays
}

func parseInterval(startStr, endStr string) (time.Time, time.Time, *errors.AppError) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "invalid startAt format", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "invalid endAt format", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "endAt must be after startAt", nil)
	}
	return start, end, nil
}

func parseUUID(value, field string) (uuid.UUID, *errors.AppError) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "invalid "+field, err)
	}
	return id, nil
}

func assignOptionalRef(value *string, field string, dst **uuid.UUID) *errors.AppError {
	if value == nil {
		return nil
	}
	id, appErr := parseUUID(*value, field)
	if appErr != nil {
		return appErr
	}
	*dst = &id
	return nil
}
