package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/planning/dto"
	"planner-api/modules/planning/entity"
	"planner-api/modules/planning/service"
)

// PlanningController handles planning session HTTP requests
type PlanningController struct {
	controller.BaseController
	PlanningService service.PlanningServiceInterface
}

func NewPlanningController(svc service.PlanningServiceInterface) *PlanningController {
	return &PlanningController{
		BaseController:  controller.NewBaseController(),
		PlanningService: svc,
	}
}

// Create handles POST /planning-sessions
func (c *PlanningController) Create(ctx echo.Context) error {
	var req dto.CreatePlanningSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.PlanningService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Planning session created")
}

// Complete handles POST /planning-sessions/:id/complete
func (c *PlanningController) Complete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid planning session ID")
	}

	var req dto.CompletePlanningSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.PlanningService.Complete(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Planning session completed")
}

// List handles GET /planning-sessions?userId=...&kind=...
func (c *PlanningController) List(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	var kind *entity.SessionKind
	if k := ctx.QueryParam("kind"); k != "" {
		sk := entity.SessionKind(k)
		kind = &sk
	}

	result, appErr := c.PlanningService.List(ctx.Request().Context(), userID, kind)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
