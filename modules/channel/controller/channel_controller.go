package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/channel/dto"
	"planner-api/modules/channel/service"
)

// ChannelController handles channel HTTP requests
type ChannelController struct {
	controller.BaseController
	ChannelService service.ChannelServiceInterface
}

func NewChannelController(svc service.ChannelServiceInterface) *ChannelController {
	return &ChannelController{
		BaseController: controller.NewBaseController(),
		ChannelService: svc,
	}
}

// Create handles POST /channels
// @Summary Create a channel
// @Tags Channels
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateChannelRequest true "Channel"
// @Success 201 {object} dto.ChannelResponse
// @Router /channels [post]
func (c *ChannelController) Create(ctx echo.Context) error {
	var req dto.CreateChannelRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ChannelService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Channel created")
}

// List handles GET /channels?userId=...
func (c *ChannelController) List(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	result, appErr := c.ChannelService.List(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Get handles GET /channels/:id
func (c *ChannelController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid channel ID")
	}

	result, appErr := c.ChannelService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Update handles PATCH /channels/:id
func (c *ChannelController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid channel ID")
	}

	var req dto.UpdateChannelRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ChannelService.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Channel updated")
}

// Delete handles DELETE /channels/:id
func (c *ChannelController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid channel ID")
	}

	if appErr := c.ChannelService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.NoContentResponse(ctx)
}
