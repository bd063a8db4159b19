package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/modules/planning/entity"
)

const sessionColumns = `id, user_id, kind, planned_for, intention, reflection,
	completed_at, created_at, updated_at`

type PlanningRepositoryInterface interface {
	Create(ctx context.Context, session *entity.PlanningSession) (*entity.PlanningSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PlanningSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]entity.PlanningSession, error)
	Update(ctx context.Context, session *entity.PlanningSession) (*entity.PlanningSession, error)
}

type PlanningRepository struct {
	DB database.IDatabase
}

func NewPlanningRepository(db database.IDatabase) PlanningRepositoryInterface {
	return &PlanningRepository{DB: db}
}

func (r *PlanningRepository) Create(ctx context.Context, session *entity.PlanningSession) (*entity.PlanningSession, error) {
	query := `
		INSERT INTO planning_sessions (user_id, kind, planned_for, intention)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + sessionColumns

	var created entity.PlanningSession
	err := r.DB.GetContext(ctx, &created, query,
		session.UserID, session.Kind, session.PlannedFor, session.Intention)
	if err != nil {
		logger.Error("PlanningRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *PlanningRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PlanningSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM planning_sessions WHERE id = $1`

	var session entity.PlanningSession
	err := r.DB.GetContext(ctx, &session, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("PlanningRepository:GetByID", err)
		return nil, err
	}
	return &session, nil
}

func (r *PlanningRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]entity.PlanningSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM planning_sessions WHERE user_id = $1`
	args := []any{userID}
	if kind != nil {
		args = append(args, *kind)
		query += ` AND kind = $2`
	}
	query += ` ORDER BY planned_for DESC`

	sessions := []entity.PlanningSession{}
	if err := r.DB.SelectContext(ctx, &sessions, query, args...); err != nil {
		logger.Error("PlanningRepository:ListByUser", err)
		return nil, err
	}
	return sessions, nil
}

func (r *PlanningRepository) Update(ctx context.Context, session *entity.PlanningSession) (*entity.PlanningSession, error) {
	query := `
		UPDATE planning_sessions
		SET intention = $2, reflection = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns

	var updated entity.PlanningSession
	err := r.DB.GetContext(ctx, &updated, query,
		session.ID, session.Intention, session.Reflection, session.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("PlanningRepository:Update", err)
		return nil, err
	}
	return &updated, nil
}
