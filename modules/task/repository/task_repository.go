package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/modules/task/entity"
)

const taskColumns = `id, user_id, channel_id, title, status, priority_level,
	importance, urgency, priority_score, due_at, rich_notes, planned_sessions,
	rollover_state, created_at, updated_at`

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus, channelID *uuid.UUID) ([]entity.Task, error)
	ListOverdueOpen(ctx context.Context, before time.Time) ([]entity.Task, error)
	Update(ctx context.Context, task *entity.Task) (*entity.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository struct {
	DB database.IDatabase
}

func NewTaskRepository(db database.IDatabase) TaskRepositoryInterface {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO tasks (user_id, channel_id, title, status, priority_level,
			importance, urgency, priority_score, due_at, rich_notes,
			planned_sessions, rollover_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + taskColumns

	var created entity.Task
	err := r.DB.GetContext(ctx, &created, query,
		task.UserID, task.ChannelID, task.Title, task.Status, task.PriorityLevel,
		task.Importance, task.Urgency, task.PriorityScore, task.DueAt,
		task.RichNotes, task.PlannedSessions, task.RolloverState)
	if err != nil {
		logger.Error("TaskRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task entity.Task
	err := r.DB.GetContext(ctx, &task, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("TaskRepository:GetByID", err)
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus, channelID *uuid.UUID) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}
	if channelID != nil {
		args = append(args, *channelID)
		if status != nil {
			query += ` AND channel_id = $3`
		} else {
			query += ` AND channel_id = $2`
		}
	}
	query += ` ORDER BY priority_score DESC NULLS LAST, due_at ASC NULLS LAST, created_at ASC`

	tasks := []entity.Task{}
	if err := r.DB.SelectContext(ctx, &tasks, query, args...); err != nil {
		logger.Error("TaskRepository:ListByUser", err)
		return nil, err
	}
	return tasks, nil
}

// ListOverdueOpen returns open tasks whose due date has passed, for the
// nightly rollover job.
func (r *TaskRepository) ListOverdueOpen(ctx context.Context, before time.Time) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status != 'done' AND due_at IS NOT NULL AND due_at < $1
		ORDER BY due_at ASC`

	tasks := []entity.Task{}
	if err := r.DB.SelectContext(ctx, &tasks, query, before); err != nil {
		logger.Error("TaskRepository:ListOverdueOpen", err)
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
		UPDATE tasks
		SET channel_id = $2, title = $3, status = $4, priority_level = $5,
			importance = $6, urgency = $7, priority_score = $8, due_at = $9,
			rich_notes = $10, planned_sessions = $11, rollover_state = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns

	var updated entity.Task
	err := r.DB.GetContext(ctx, &updated, query,
		task.ID, task.ChannelID, task.Title, task.Status, task.PriorityLevel,
		task.Importance, task.Urgency, task.PriorityScore, task.DueAt,
		task.RichNotes, task.PlannedSessions, task.RolloverState)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("TaskRepository:Update", err)
		return nil, err
	}
	return &updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 RETURNING id`

	var deleted uuid.UUID
	err := r.DB.GetContext(ctx, &deleted, query, id)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		logger.Error("TaskRepository:Delete", err)
		return err
	}
	return nil
}
