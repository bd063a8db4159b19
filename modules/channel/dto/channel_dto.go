package dto

import (
	"time"

	"planner-api/core/params"
	"planner-api/modules/channel/entity"
)

// ===================== Request DTOs =====================

type CreateChannelRequest struct {
	UserID           string  `json:"userId" validate:"required,uuid"`
	Name             string  `json:"name" validate:"required,max=100"`
	Color            *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Visibility       string  `json:"visibility,omitempty"` // default private
	TargetCalendarID *string `json:"targetCalendarId,omitempty"`
}

// UpdateChannelRequest is a PATCH body with tri-state fields.
type UpdateChannelRequest struct {
	Name             params.UpdateField[string] `json:"name"`
	Color            params.UpdateField[string] `json:"color"`
	Visibility       params.UpdateField[string] `json:"visibility"`
	TargetCalendarID params.UpdateField[string] `json:"targetCalendarId"`
}

// ===================== Response DTOs =====================

type ChannelResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Color            *string   `json:"color"`
	Visibility       string    `json:"visibility"`
	TargetCalendarID *string   `json:"targetCalendarId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ===================== Mappers =====================

func ToChannelResponse(ch *entity.Channel) *ChannelResponse {
	return &ChannelResponse{
		ID:               ch.ID.String(),
		UserID:           ch.UserID.String(),
		Name:             ch.Name,
		Slug:             ch.Slug,
		Color:            ch.Color,
		Visibility:       string(ch.Visibility),
		TargetCalendarID: ch.TargetCalendarID,
		CreatedAt:        ch.CreatedAt,
		UpdatedAt:        ch.UpdatedAt,
	}
}

func ToChannelResponses(channels []entity.Channel) []ChannelResponse {
	out := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		out = append(out, *ToChannelResponse(&channels[i]))
	}
	return out
}
