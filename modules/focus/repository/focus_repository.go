package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/modules/focus/entity"
)

const focusColumns = `id, user_id, task_id, time_block_id, kind, started_at,
	ended_at, created_at`

type FocusRepositoryInterface interface {
	Create(ctx context.Context, session *entity.FocusSession) (*entity.FocusSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FocusSession, error)
	GetRunning(ctx context.Context, userID uuid.UUID) (*entity.FocusSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]entity.FocusSession, error)
	Stop(ctx context.Context, id uuid.UUID) (*entity.FocusSession, error)
}

type FocusRepository struct {
	DB database.IDatabase
}

func NewFocusRepository(db database.IDatabase) FocusRepositoryInterface {
	return &FocusRepository{DB: db}
}

func (r *FocusRepository) Create(ctx context.Context, session *entity.FocusSession) (*entity.FocusSession, error) {
	query := `
		INSERT INTO focus_sessions (user_id, task_id, time_block_id, kind, started_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + focusColumns

	var created entity.FocusSession
	err := r.DB.GetContext(ctx, &created, query,
		session.UserID, session.TaskID, session.TimeBlockID, session.Kind, session.StartedAt)
	if err != nil {
		logger.Error("FocusRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *FocusRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE id = $1`

	var session entity.FocusSession
	err := r.DB.GetContext(ctx, &session, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("FocusRepository:GetByID", err)
		return nil, err
	}
	return &session, nil
}

// GetRunning returns the user's open session, if any. At most one session
// runs at a time.
func (r *FocusRepository) GetRunning(ctx context.Context, userID uuid.UUID) (*entity.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions
		WHERE user_id = $1 AND ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1`

	var session entity.FocusSession
	err := r.DB.GetContext(ctx, &session, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("FocusRepository:GetRunning", err)
		return nil, err
	}
	return &session, nil
}

func (r *FocusRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]entity.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE user_id = $1`
	args := []any{userID}
	if kind != nil {
		args = append(args, *kind)
		query += ` AND kind = $2`
	}
	query += ` ORDER BY started_at DESC`

	sessions := []entity.FocusSession{}
	if err := r.DB.SelectContext(ctx, &sessions, query, args...); err != nil {
		logger.Error("FocusRepository:ListByUser", err)
		return nil, err
	}
	return sessions, nil
}

func (r *FocusRepository) Stop(ctx context.Context, id uuid.UUID) (*entity.FocusSession, error) {
	query := `
		UPDATE focus_sessions
		SET ended_at = NOW()
		WHERE id = $1 AND ended_at IS NULL
		RETURNING ` + focusColumns

	var stopped entity.FocusSession
	err := r.DB.GetContext(ctx, &stopped, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("FocusRepository:Stop", err)
		return nil, err
	}
	return &stopped, nil
}
