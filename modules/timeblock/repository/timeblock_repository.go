package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/modules/timeblock/entity"
)

const timeBlockColumns = `
	id, user_id, task_id, channel_id, start_at, end_at, status, provider,
	calendar_event_id, location, notes, recurrence_rule, created_at, updated_at`

// TimeBlockRepositoryInterface defines the time-block store contract.
type TimeBlockRepositoryInterface interface {
	Create(ctx context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeBlock, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *entity.TimeBlockStatus, taskID *uuid.UUID) ([]entity.TimeBlock, error)
	// ListActiveOverlapping returns the user's non-cancelled blocks whose
	// intervals intersect [from, to), sorted ascending by start time. This is
	// the busy set consumed by the conflict checker and the slot finder.
	ListActiveOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.TimeBlock, error)
	Update(ctx context.Context, block *entity.TimeBlock) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByCalendarEventID(ctx context.Context, userID uuid.UUID, calendarEventID string) (*entity.TimeBlock, error)
	UpsertExternal(ctx context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error)
}

type TimeBlockRepository struct {
	DB database.IDatabase
}

func NewTimeBlockRepository(db database.IDatabase) *TimeBlockRepository {
	return &TimeBlockRepository{DB: db}
}

func (r *TimeBlockRepository) Create(ctx context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error) {
	query := `
		INSERT INTO time_blocks (user_id, task_id, channel_id, start_at, end_at, status, provider,
		                         calendar_event_id, location, notes, recurrence_rule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + timeBlockColumns

	var created entity.TimeBlock
	err := r.DB.GetContext(ctx, &created, query,
		block.UserID, block.TaskID, block.ChannelID, block.StartAt, block.EndAt,
		block.Status, block.Provider, block.CalendarEventID,
		block.Location, block.Notes, block.RecurrenceRule)
	if err != nil {
		logger.Error("TimeBlockRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *TimeBlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE id = $1`

	var block entity.TimeBlock
	err := r.DB.GetContext(ctx, &block, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TimeBlockRepository:GetByID", err)
		return nil, err
	}

	return &block, nil
}

func (r *TimeBlockRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *entity.TimeBlockStatus, taskID *uuid.UUID) ([]entity.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + `
		FROM time_blocks
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::uuid IS NULL OR task_id = $3)
		ORDER BY start_at ASC`

	var blocks []entity.TimeBlock
	err := r.DB.SelectContext(ctx, &blocks, query, userID, status, taskID)
	if err != nil {
		logger.Error("TimeBlockRepository:ListByUser", err)
		return nil, err
	}

	return blocks, nil
}

func (r *TimeBlockRepository) ListActiveOverlapping(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + `
		FROM time_blocks
		WHERE user_id = $1
		  AND status != 'cancelled'
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at ASC`

	var blocks []entity.TimeBlock
	err := r.DB.SelectContext(ctx, &blocks, query, userID, from, to)
	if err != nil {
		logger.Error("TimeBlockRepository:ListActiveOverlapping", err)
		return nil, err
	}

	return blocks, nil
}

func (r *TimeBlockRepository) Update(ctx context.Context, block *entity.TimeBlock) error {
	query := `
		UPDATE time_blocks
		SET task_id = $2, channel_id = $3, start_at = $4, end_at = $5, status = $6,
		    provider = $7, calendar_event_id = $8, location = $9, notes = $10,
		    recurrence_rule = $11, updated_at = NOW()
		WHERE id = $1`

	err := r.DB.ExecContext(ctx, query,
		block.ID, block.TaskID, block.ChannelID, block.StartAt, block.EndAt,
		block.Status, block.Provider, block.CalendarEventID,
		block.Location, block.Notes, block.RecurrenceRule)
	if err != nil {
		logger.Error("TimeBlockRepository:Update", err)
		return err
	}

	return nil
}

func (r *TimeBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM time_blocks WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("TimeBlockRepository:Delete", err)
		return err
	}
	return nil
}

func (r *TimeBlockRepository) GetByCalendarEventID(ctx context.Context, userID uuid.UUID, calendarEventID string) (*entity.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + `
		FROM time_blocks
		WHERE user_id = $1 AND calendar_event_id = $2`

	var block entity.TimeBlock
	err := r.DB.GetContext(ctx, &block, query, userID, calendarEventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TimeBlockRepository:GetByCalendarEventID", err)
		return nil, err
	}

	return &block, nil
}

// UpsertExternal inserts or updates an externally sourced block keyed by
// (user_id, calendar_event_id). On update the local id, task linkage, and
// provider are preserved; only the fields the external event carries change.
func (r *TimeBlockRepository) UpsertExternal(ctx context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error) {
	query := `
		INSERT INTO time_blocks (user_id, channel_id, start_at, end_at, status, provider,
		                         calendar_event_id, location, notes, recurrence_rule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, calendar_event_id) DO UPDATE SET
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			status = EXCLUDED.status,
			channel_id = EXCLUDED.channel_id,
			location = EXCLUDED.location,
			notes = EXCLUDED.notes,
			recurrence_rule = EXCLUDED.recurrence_rule,
			updated_at = NOW()
		RETURNING ` + timeBlockColumns

	var upserted entity.TimeBlock
	err := r.DB.GetContext(ctx, &upserted, query,
		block.UserID, block.ChannelID, block.StartAt, block.EndAt, block.Status,
		block.Provider, block.CalendarEventID, block.Location, block.Notes, block.RecurrenceRule)
	if err != nil {
		logger.Error("TimeBlockRepository:UpsertExternal", err)
		return nil, err
	}

	return &upserted, nil
}
