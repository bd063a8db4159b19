package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planner-api/core/controller"
	"planner-api/core/errors"
	"planner-api/modules/sync/dto"
	"planner-api/modules/sync/entity"
	"planner-api/modules/sync/service"
	tbentity "planner-api/modules/timeblock/entity"
)

// SyncController handles calendar integration HTTP requests
type SyncController struct {
	controller.BaseController
	SyncService service.SyncServiceInterface
}

func NewSyncController(svc service.SyncServiceInterface) *SyncController {
	return &SyncController{
		BaseController: controller.NewBaseController(),
		SyncService:    svc,
	}
}

// GoogleConnectURL handles GET /sync/google/connect?userId=...
// @Summary Get the Google OAuth consent URL
// @Tags Sync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ConnectURLResponse
// @Router /sync/google/connect [get]
func (c *SyncController) GoogleConnectURL(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	url, appErr := c.SyncService.GoogleConnectURL(userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ConnectURLResponse{URL: url}, "Success")
}

// GoogleCallback handles POST /sync/google/connect
// @Summary Complete the Google OAuth flow
// @Description Exchanges the authorization code and stores the calendar connection
// @Tags Sync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.GoogleCallbackRequest true "Callback payload"
// @Success 200 {object} dto.IntegrationResponse
// @Router /sync/google/connect [post]
func (c *SyncController) GoogleCallback(ctx echo.Context) error {
	var req dto.GoogleCallbackRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid userId")
	}

	result, appErr := c.SyncService.HandleGoogleCallback(ctx.Request().Context(), userID, req.Code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// ConnectICal handles POST /sync/ical/connect
func (c *SyncController) ConnectICal(ctx echo.Context) error {
	var req dto.ConnectICalRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid userId")
	}

	result, appErr := c.SyncService.ConnectICal(ctx.Request().Context(), userID, req.ICalURL)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Feed connected")
}

// Disconnect handles DELETE /sync/:provider?userId=...
func (c *SyncController) Disconnect(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}
	provider := tbentity.Provider(ctx.Param("provider"))

	if appErr := c.SyncService.Disconnect(ctx.Request().Context(), userID, provider); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.NoContentResponse(ctx)
}

// Status handles GET /sync/status?userId=...
func (c *SyncController) Status(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}

	result, appErr := c.SyncService.Status(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Poll handles POST /sync/:provider/poll?userId=...
// With an events body the caller delivers the provider's events (plus the
// echoed cursor) itself; without one the service fetches the window.
// @Summary Reconcile external events into local blocks
// @Tags Sync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PollRequest false "Pushed events and sync cursor"
// @Success 200 {object} entity.SyncSummary
// @Failure 404 {object} errors.AppError
// @Router /sync/{provider}/poll [post]
func (c *SyncController) Poll(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.QueryParam("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "userId is required")
	}
	provider := tbentity.Provider(ctx.Param("provider"))
	if !provider.IsValid() || provider == tbentity.ProviderLocal {
		return c.BadRequest(errors.ErrInvalidInput, "invalid provider")
	}

	var req dto.PollRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&req); err != nil {
			return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
		}
	}

	var result *entity.SyncSummary
	var appErr *errors.AppError
	if len(req.Events) > 0 {
		result, appErr = c.SyncService.Reconcile(ctx.Request().Context(), userID, provider,
			dto.ToExternalEvents(req.Events), req.Cursor, req.CalendarID)
	} else {
		result, appErr = c.SyncService.Poll(ctx.Request().Context(), userID, provider)
	}
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Sync completed")
}
