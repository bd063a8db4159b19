package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/modules/channel/entity"
)

const channelColumns = `id, user_id, name, slug, color, visibility,
	target_calendar_id, created_at, updated_at`

type ChannelRepositoryInterface interface {
	Create(ctx context.Context, channel *entity.Channel) (*entity.Channel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Channel, error)
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*entity.Channel, error)
	GetByTargetCalendarID(ctx context.Context, userID uuid.UUID, calendarID string) (*entity.Channel, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Channel, error)
	Update(ctx context.Context, channel *entity.Channel) (*entity.Channel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChannelRepository struct {
	DB database.IDatabase
}

func NewChannelRepository(db database.IDatabase) ChannelRepositoryInterface {
	return &ChannelRepository{DB: db}
}

func (r *ChannelRepository) Create(ctx context.Context, channel *entity.Channel) (*entity.Channel, error) {
	query := `
		INSERT INTO channels (user_id, name, slug, color, visibility, target_calendar_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + channelColumns

	var created entity.Channel
	err := r.DB.GetContext(ctx, &created, query,
		channel.UserID, channel.Name, channel.Slug, channel.Color,
		channel.Visibility, channel.TargetCalendarID)
	if err != nil {
		logger.Error("ChannelRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`

	var channel entity.Channel
	err := r.DB.GetContext(ctx, &channel, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("ChannelRepository:GetByID", err)
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*entity.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE user_id = $1 AND slug = $2`

	var channel entity.Channel
	err := r.DB.GetContext(ctx, &channel, query, userID, slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("ChannelRepository:GetBySlug", err)
		return nil, err
	}
	return &channel, nil
}

// GetByTargetCalendarID resolves the channel bound to an external calendar.
// The sync reconciler uses this to attach mirrored events to a channel.
func (r *ChannelRepository) GetByTargetCalendarID(ctx context.Context, userID uuid.UUID, calendarID string) (*entity.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels
		WHERE user_id = $1 AND target_calendar_id = $2`

	var channel entity.Channel
	err := r.DB.GetContext(ctx, &channel, query, userID, calendarID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("ChannelRepository:GetByTargetCalendarID", err)
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels
		WHERE user_id = $1 ORDER BY name ASC`

	channels := []entity.Channel{}
	if err := r.DB.SelectContext(ctx, &channels, query, userID); err != nil {
		logger.Error("ChannelRepository:ListByUser", err)
		return nil, err
	}
	return channels, nil
}

func (r *ChannelRepository) Update(ctx context.Context, channel *entity.Channel) (*entity.Channel, error) {
	query := `
		UPDATE channels
		SET name = $2, slug = $3, color = $4, visibility = $5,
			target_calendar_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + channelColumns

	var updated entity.Channel
	err := r.DB.GetContext(ctx, &updated, query,
		channel.ID, channel.Name, channel.Slug, channel.Color,
		channel.Visibility, channel.TargetCalendarID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("ChannelRepository:Update", err)
		return nil, err
	}
	return &updated, nil
}

func (r *ChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM channels WHERE id = $1 RETURNING id`

	var deleted uuid.UUID
	err := r.DB.GetContext(ctx, &deleted, query, id)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		logger.Error("ChannelRepository:Delete", err)
		return err
	}
	return nil
}
