package service

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"planner-api/core/errors"
	"planner-api/core/params"
	"planner-api/modules/channel/dto"
	"planner-api/modules/channel/entity"
	"planner-api/modules/channel/repository"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type ChannelService struct {
	repo repository.ChannelRepositoryInterface
}

type ChannelServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateChannelRequest) (*dto.ChannelResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ChannelResponse, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID) ([]dto.ChannelResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateChannelRequest) (*dto.ChannelResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

func NewChannelService(repo repository.ChannelRepositoryInterface) ChannelServiceInterface {
	return &ChannelService{repo: repo}
}

func (s *ChannelService) Create(ctx context.Context, req *dto.CreateChannelRequest) (*dto.ChannelResponse, *errors.AppError) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid userId", err)
	}
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if req.Color != nil && !hexColorPattern.MatchString(*req.Color) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "color must be a hex color like #1a2b3c", nil)
	}

	visibility := entity.VisibilityPrivate
	if req.Visibility != "" {
		visibility = entity.Visibility(req.Visibility)
		if !visibility.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid visibility", nil)
		}
	}

	channelSlug := slug.Make(req.Name)
	if existing, err := s.repo.GetBySlug(ctx, userID, channelSlug); err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check slug", err)
	} else if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "a channel with this name already exists", nil)
	}

	channel := &entity.Channel{
		UserID:           userID,
		Name:             req.Name,
		Slug:             channelSlug,
		Color:            req.Color,
		Visibility:       visibility,
		TargetCalendarID: req.TargetCalendarID,
	}

	created, err := s.repo.Create(ctx, channel)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create channel", err)
	}
	return dto.ToChannelResponse(created), nil
}

func (s *ChannelService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ChannelResponse, *errors.AppError) {
	channel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get channel", err)
	}
	if channel == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "channel not found", nil)
	}
	return dto.ToChannelResponse(channel), nil
}

func (s *ChannelService) List(ctx context.Context, userID uuid.UUID) ([]dto.ChannelResponse, *errors.AppError) {
	channels, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list channels", err)
	}
	return dto.ToChannelResponses(channels), nil
}

func (s *ChannelService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateChannelRequest) (*dto.ChannelResponse, *errors.AppError) {
	channel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get channel", err)
	}
	if channel == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "channel not found", nil)
	}

	if v, ok := req.Name.Get(); ok {
		if v == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "name cannot be empty", nil)
		}
		newSlug := slug.Make(v)
		if newSlug != channel.Slug {
			if existing, err := s.repo.GetBySlug(ctx, channel.UserID, newSlug); err != nil {
				return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check slug", err)
			} else if existing != nil {
				return nil, errors.NewAppError(errors.ErrAlreadyExists, "a channel with this name already exists", nil)
			}
		}
		channel.Name = v
		channel.Slug = newSlug
	}

	if v, ok := req.Color.Get(); ok && !hexColorPattern.MatchString(v) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "color must be a hex color like #1a2b3c", nil)
	}
	params.ApplyPtr(req.Color, &channel.Color)

	if v, ok := req.Visibility.Get(); ok {
		visibility := entity.Visibility(v)
		if !visibility.IsValid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid visibility", nil)
		}
		channel.Visibility = visibility
	}

	params.ApplyPtr(req.TargetCalendarID, &channel.TargetCalendarID)

	updated, err := s.repo.Update(ctx, channel)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update channel", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "channel not found", nil)
	}
	return dto.ToChannelResponse(updated), nil
}

func (s *ChannelService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	channel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get channel", err)
	}
	if channel == nil {
		return errors.NewAppError(errors.ErrNotFound, "channel not found", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete channel", err)
	}
	return nil
}
