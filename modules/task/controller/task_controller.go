package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/task/dto"
	"planner-api/modules/task/entity"
	"planner-api/modules/task/service"
)

// TaskController handles task HTTP requests
type TaskController struct {
	controller.BaseController
	TaskService service.TaskServiceInterface
}

func NewTaskController(svc service.TaskServiceInterface) *TaskController {
	return &TaskController{
		BaseController: controller.NewBaseController(),
		TaskService:    svc,
	}
}

// Create handles POST /tasks
// @Summary Create a task
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task"
// @Success 201 {object} dto.TaskResponse
// @Router /tasks [post]
func (c *TaskController) Create(ctx echo.Context) error {
	var req dto.CreateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.TaskService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Task created")
}

// List handles GET /tasks?userId=...&status=...&channelId=...
func (c *TaskController) List(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	var status *entity.TaskStatus
	if s := ctx.QueryParam("status"); s != "" {
		st := entity.TaskStatus(s)
		status = &st
	}

	var channelID *uuid.UUID
	if ch := ctx.QueryParam("channelId"); ch != "" {
		id, err := uuid.Parse(ch)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid channelId")
		}
		channelID = &id
	}

	result, appErr := c.TaskService.List(ctx.Request().Context(), userID, status, channelID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Get handles GET /tasks/:id
func (c *TaskController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid task ID")
	}

	result, appErr := c.TaskService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Update handles PATCH /tasks/:id
// @Summary Update a task
// @Description Applies a partial update and recomputes the priority score when importance or urgency change
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Router /tasks/{id} [patch]
func (c *TaskController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.TaskService.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Task updated")
}

// Delete handles DELETE /tasks/:id
func (c *TaskController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid task ID")
	}

	if appErr := c.TaskService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.NoContentResponse(ctx)
}
