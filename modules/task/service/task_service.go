package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"planner-api/core/audit"
	coreentity "planner-api/core/entity"
	"planner-api/core/errors"
	"planner-api/core/logger"
	"planner-api/core/params"
	"planner-api/core/telemetry"
	"planner-api/modules/task/dto"
	"planner-api/modules/task/entity"
	"planner-api/modules/task/repository"
)

type TaskService struct {
	repo    repository.TaskRepositoryInterface
	auditor audit.Recorder
}

type TaskServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus, channelID *uuid.UUID) ([]dto.TaskResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
	RolloverOverdue(ctx context.Context, now time.Time) (int, *errors.AppError)
}

func NewTaskService(repo repository.TaskRepositoryInterface, auditor audit.Recorder) TaskServiceInterface {
	return &TaskService{repo: repo, auditor: auditor}
}

func (s *TaskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid userId", err)
	}
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}

	status := entity.StatusTodo
	if req.Status != "" {
		status = entity.TaskStatus(req.Status)
		if !status.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
	}

	level := entity.DefaultPriorityLevel
	if req.PriorityLevel != nil {
		if *req.PriorityLevel < 1 || *req.PriorityLevel > 5 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "priorityLevel must be between 1 and 5", nil)
		}
		level = *req.PriorityLevel
	}

	// An explicit score wins over the computed one.
	score := ComputePriorityScore(req.Importance, req.Urgency)
	if req.PriorityScore != nil {
		score = req.PriorityScore
	}

	task := &entity.Task{
		UserID:          userID,
		Title:           req.Title,
		Status:          status,
		PriorityLevel:   level,
		Importance:      req.Importance,
		Urgency:         req.Urgency,
		PriorityScore:   score,
		RichNotes:       req.RichNotes,
		PlannedSessions: pq.StringArray(req.PlannedSessions),
	}

	if req.ChannelID != nil {
		channelID, err := uuid.Parse(*req.ChannelID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid channelId", err)
		}
		task.ChannelID = &channelID
	}
	if req.DueAt != nil {
		dueAt, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "dueAt must be RFC3339", err)
		}
		task.DueAt = &dueAt
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create task", err)
	}

	_ = s.auditor.Record(ctx, audit.Entry{
		UserID:     created.UserID,
		Action:     "task.created",
		EntityType: "task",
		EntityID:   created.ID,
	})
	telemetry.Track(telemetry.EventTaskCreated, "task_id", created.ID.String(), "user_id", created.UserID.String())

	return dto.ToTaskResponse(created), nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, *errors.AppError) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get task", err)
	}
	if task == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}
	return dto.ToTaskResponse(task), nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus, channelID *uuid.UUID) ([]dto.TaskResponse, *errors.AppError) {
	if status != nil && !status.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
	}
	tasks, err := s.repo.ListByUser(ctx, userID, status, channelID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list tasks", err)
	}
	return dto.ToTaskResponses(tasks), nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get task", err)
	}
	if task == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}

	params.ApplyValue(req.Title, &task.Title)
	if task.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", nil)
	}
	params.ApplyPtr(req.ChannelID, &task.ChannelID)

	if v, ok := req.Status.Get(); ok {
		status := entity.TaskStatus(v)
		if !status.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid status", nil)
		}
		task.Status = status
	}
	if v, ok := req.PriorityLevel.Get(); ok {
		if v < 1 || v > 5 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "priorityLevel must be between 1 and 5", nil)
		}
		task.PriorityLevel = v
	}

	params.ApplyPtr(req.Importance, &task.Importance)
	params.ApplyPtr(req.Urgency, &task.Urgency)
	if v, ok := req.PriorityScore.Get(); ok {
		task.PriorityScore = &v
	} else if req.PriorityScore.IsNull() {
		task.PriorityScore = nil
	} else {
		task.PriorityScore = ComputePriorityScore(task.Importance, task.Urgency)
	}

	params.ApplyPtr(req.DueAt, &task.DueAt)
	params.ApplyPtr(req.RichNotes, &task.RichNotes)
	if v, ok := req.PlannedSessions.Get(); ok {
		task.PlannedSessions = pq.StringArray(v)
	} else if req.PlannedSessions.IsNull() {
		task.PlannedSessions = nil
	}

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update task", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}

	_ = s.auditor.Record(ctx, audit.Entry{
		UserID:     updated.UserID,
		Action:     "task.updated",
		EntityType: "task",
		EntityID:   updated.ID,
	})
	telemetry.Track(telemetry.EventTaskUpdated, "task_id", updated.ID.String())

	return dto.ToTaskResponse(updated), nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get task", err)
	}
	if task == nil {
		return errors.NewAppError(errors.ErrNotFound, "task not found", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete task", err)
	}

	_ = s.auditor.Record(ctx, audit.Entry{
		UserID:     task.UserID,
		Action:     "task.deleted",
		EntityType: "task",
		EntityID:   task.ID,
	})
	telemetry.Track(telemetry.EventTaskDeleted, "task_id", id.String())

	return nil
}

// RolloverOverdue moves the due date of every open, overdue task forward to
// today, preserving the original time of day, and stamps the rollover in the
// task's rollover_state. Returns the number of tasks moved.
func (s *TaskService) RolloverOverdue(ctx context.Context, now time.Time) (int, *errors.AppError) {
	overdue, err := s.repo.ListOverdueOpen(ctx, now)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "failed to list overdue tasks", err)
	}

	moved := 0
	for i := range overdue {
		task := &overdue[i]
		previous := *task.DueAt
		rescheduled := time.Date(now.Year(), now.Month(), now.Day(),
			previous.Hour(), previous.Minute(), previous.Second(), 0, previous.Location())
		task.DueAt = &rescheduled

		// jsonb round-trips numbers as float64; in-process state carries int.
		count := 0
		switch c := task.RolloverState["count"].(type) {
		case float64:
			count = int(c)
		case int:
			count = c
		}
		task.RolloverState = coreentity.JSONB{
			"count":          count + 1,
			"lastRolloverAt": now.UTC().Format(time.RFC3339),
			"previousDueAt":  previous.UTC().Format(time.RFC3339),
		}

		if _, err := s.repo.Update(ctx, task); err != nil {
			logger.Error("TaskService:RolloverOverdue", err, "task_id", task.ID.String())
			continue
		}
		moved++
	}

	return moved, nil
}
