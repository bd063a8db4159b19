package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/focus/dto"
	"planner-api/modules/focus/entity"
	"planner-api/modules/focus/service"
)

// FocusController handles focus session HTTP requests
type FocusController struct {
	controller.BaseController
	FocusService service.FocusServiceInterface
}

func NewFocusController(svc service.FocusServiceInterface) *FocusController {
	return &FocusController{
		BaseController: controller.NewBaseController(),
		FocusService:   svc,
	}
}

// Start handles POST /focus-sessions
func (c *FocusController) Start(ctx echo.Context) error {
	var req dto.StartFocusSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.FocusService.Start(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Session started")
}

// Stop handles POST /focus-sessions/:id/stop
func (c *FocusController) Stop(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid session ID")
	}

	result, appErr := c.FocusService.Stop(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Session stopped")
}

// Current handles GET /focus-sessions/current?userId=...
func (c *FocusController) Current(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	result, appErr := c.FocusService.Current(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// List handles GET /focus-sessions?userId=...&kind=...
func (c *FocusController) List(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	var kind *entity.SessionKind
	if k := ctx.QueryParam("kind"); k != "" {
		sk := entity.SessionKind(k)
		kind = &sk
	}

	result, appErr := c.FocusService.List(ctx.Request().Context(), userID, kind)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
