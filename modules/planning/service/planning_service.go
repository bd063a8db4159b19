package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner-api/core/errors"
	"planner-api/modules/planning/dto"
	"planner-api/modules/planning/entity"
	"planner-api/modules/planning/repository"
)

type PlanningService struct {
	repo repository.PlanningRepositoryInterface
}

type PlanningServiceInterface interface {
	Create(ctx context.Context, req *dto.CreatePlanningSessionRequest) (*dto.PlanningSessionResponse, *errors.AppError)
	Complete(ctx context.Context, id uuid.UUID, req *dto.CompletePlanningSessionRequest) (*dto.PlanningSessionResponse, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]dto.PlanningSessionResponse, *errors.AppError)
}

func NewPlanningService(repo repository.PlanningRepositoryInterface) PlanningServiceInterface {
	return &PlanningService{repo: repo}
}

func (s *PlanningService) Create(ctx context.Context, req *dto.CreatePlanningSessionRequest) (*dto.PlanningSessionResponse, *errors.AppError) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid userId", err)
	}

	kind := entity.SessionKind(req.Kind)
	if !kind.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "kind must be daily or weekly", nil)
	}

	plannedFor, err := time.Parse("2006-01-02", req.PlannedFor)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "plannedFor must be YYYY-MM-DD", err)
	}

	session := &entity.PlanningSession{
		UserID:     userID,
		Kind:       kind,
		PlannedFor: plannedFor,
		Intention:  req.Intention,
	}
	created, err := s.repo.Create(ctx, session)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create planning session", err)
	}
	return dto.ToPlanningSessionResponse(created), nil
}

func (s *PlanningService) Complete(ctx context.Context, id uuid.UUID, req *dto.CompletePlanningSessionRequest) (*dto.PlanningSessionResponse, *errors.AppError) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get planning session", err)
	}
	if session == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "planning session not found", nil)
	}
	if session.IsCompleted() {
		return nil, errors.NewAppError(errors.ErrConflict, "planning session already completed", nil)
	}

	now := time.Now().UTC()
	session.CompletedAt = &now
	if req.Reflection != nil {
		session.Reflection = req.Reflection
	}

	updated, err := s.repo.Update(ctx, session)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to complete planning session", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "planning session not found", nil)
	}
	return dto.ToPlanningSessionResponse(updated), nil
}

func (s *PlanningService) List(ctx context.Context, userID uuid.UUID, kind *entity.SessionKind) ([]dto.PlanningSessionResponse, *errors.AppError) {
	if kind != nil && !kind.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "kind must be daily or weekly", nil)
	}
	sessions, err := s.repo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list planning sessions", err)
	}
	return dto.ToPlanningSessionResponses(sessions), nil
}
