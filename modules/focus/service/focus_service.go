package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner-api/core/errors"
	"planner-api/modules/focus/dto"
	"planner-api/modules/focus/entity"
	"planner-api/modules/focus/repository"
)

type FocusService struct {
	repo repository.FocusRepositoryInterface
}

type FocusServiceInterface interface {
	Start(ctx context.Context, req *dto.StartFocusSessionRequest) (*dto.FocusSessionResponse, *errors.AppError)
	Stop(ctx context.Context, id uuid.UUID) (*dto.FocusSessionResponse, *errors.AppError)
	Current(ctx context.Context, userID uuid.UUID) (*dto.FocusSessionResponse, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]dto.FocusSessionResponse, *errors.AppError)
}

func NewFocusService(repo repository.FocusRepositoryInterface) FocusServiceInterface {
	return &FocusService{repo: repo}
}

// Start opens a new timer. Only one session may run per user; starting a
// second one is a conflict, not an implicit stop.
func (s *FocusService) Start(ctx context.Context, req *dto.StartFocusSessionRequest) (*dto.FocusSessionResponse, *errors.AppError) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid userId", err)
	}

	kind := entity.KindFocus
	if req.Kind != "" {
		kind = entity.SessionKind(req.Kind)
		if !kind.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "kind must be focus or break", nil)
		}
	}

	running, err := s.repo.GetRunning(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check running session", err)
	}
	if running != nil {
		return nil, errors.NewAppError(errors.ErrConflict, "a session is already running", nil)
	}

	session := &entity.FocusSession{
		UserID:    userID,
		Kind:      kind,
		StartedAt: time.Now().UTC(),
	}
	if req.TaskID != nil {
		taskID, err := uuid.Parse(*req.TaskID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid taskId", err)
		}
		session.TaskID = &taskID
	}
	if req.TimeBlockID != nil {
		blockID, err := uuid.Parse(*req.TimeBlockID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid timeBlockId", err)
		}
		session.TimeBlockID = &blockID
	}

	created, err := s.repo.Create(ctx, session)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to start session", err)
	}
	return dto.ToFocusSessionResponse(created, time.Now()), nil
}

func (s *FocusService) Stop(ctx context.Context, id uuid.UUID) (*dto.FocusSessionResponse, *errors.AppError) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get session", err)
	}
	if session == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "session not found", nil)
	}
	if !session.IsRunning() {
		return nil, errors.NewAppError(errors.ErrConflict, "session already stopped", nil)
	}

	stopped, err := s.repo.Stop(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to stop session", err)
	}
	if stopped == nil {
		return nil, errors.NewAppError(errors.ErrConflict, "session already stopped", nil)
	}
	return dto.ToFocusSessionResponse(stopped, time.Now()), nil
}

func (s *FocusService) Current(ctx context.Context, userID uuid.UUID) (*dto.FocusSessionResponse, *errors.AppError) {
	running, err := s.repo.GetRunning(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get running session", err)
	}
	if running == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no running session", nil)
	}
	return dto.ToFocusSessionResponse(running, time.Now()), nil
}

func (s *FocusService) List(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]dto.FocusSessionResponse, *errors.AppError) {
	if kind != nil && !kind.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "kind must be focus or break", nil)
	}
	sessions, err := s.repo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list sessions", err)
	}
	return dto.ToFocusSessionResponses(sessions, time.Now()), nil
}
