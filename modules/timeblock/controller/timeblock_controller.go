package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/timeblock/dto"
	"planner-api/modules/timeblock/entity"
	"planner-api/modules/timeblock/service"
)

// TimeBlockController handles time-block HTTP requests
type TimeBlockController struct {
	controller.BaseController
	TimeBlockService service.TimeBlockServiceInterface
}

func NewTimeBlockController(svc service.TimeBlockServiceInterface) *TimeBlockController {
	return &TimeBlockController{
		BaseController:   controller.NewBaseController(),
		TimeBlockService: svc,
	}
}

// Create handles POST /timeblocks
// @Summary Book a time block
// @Description Creates a time block after validating the interval and checking for conflicts
// @Tags TimeBlocks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTimeBlockRequest true "Time block"
// @Success 201 {object} dto.TimeBlockResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /timeblocks [post]
func (c *TimeBlockController) Create(ctx echo.Context) error {
	var req dto.CreateTimeBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.TimeBlockService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Time block created")
}

// List handles GET /timeblocks?userId=...&status=...&taskId=...
// @Summary List time blocks for a user
// @Tags TimeBlocks
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.TimeBlockResponse
// @Router /timeblocks [get]
func (c *TimeBlockController) List(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	var status *entity.TimeBlockStatus
	if s := ctx.QueryParam("status"); s != "" {
		st := entity.TimeBlockStatus(s)
		status = &st
	}

	var taskID *uuid.UUID
	if t := ctx.QueryParam("taskId"); t != "" {
		id, err := uuid.Parse(t)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid taskId")
		}
		taskID = &id
	}

	result, appErr := c.TimeBlockService.List(ctx.Request().Context(), userID, status, taskID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Get handles GET /timeblocks/:id
func (c *TimeBlockController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid time block ID")
	}

	result, appErr := c.TimeBlockService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Update handles PATCH /timeblocks/:id
// @Summary Update a time block
// @Description Recomputes the effective interval, re-runs the conflict check excluding the block itself, then applies the update
// @Tags TimeBlocks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Time block ID"
// @Param request body dto.UpdateTimeBlockRequest true "Fields to change"
// @Success 200 {object} dto.TimeBlockResponse
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /timeblocks/{id} [patch]
func (c *TimeBlockController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid time block ID")
	}

	var req dto.UpdateTimeBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.TimeBlockService.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Time block updated")
}

// Delete handles DELETE /timeblocks/:id
func (c *TimeBlockController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid time block ID")
	}

	if appErr := c.TimeBlockService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.NoContentResponse(ctx)
}

// SuggestSlot handles POST /timeblocks/suggest
// @Summary Suggest and book the next open slot
// @Description Scans the user's calendar for the first open gap of the requested duration and books it as a tentative block
// @Tags TimeBlocks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestSlotRequest true "Slot request"
// @Success 201 {object} dto.TimeBlockResponse
// @Failure 409 {object} errors.AppError
// @Router /timeblocks/suggest [post]
func (c *TimeBlockController) SuggestSlot(ctx echo.Context) error {
	var req dto.SuggestSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.TimeBlockService.SuggestSlot(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Slot booked")
}
