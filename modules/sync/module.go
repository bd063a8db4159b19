package sync

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/database"
	"planner-api/core/middleware"
	channelrepo "planner-api/modules/channel/repository"
	"planner-api/modules/sync/controller"
	"planner-api/modules/sync/repository"
	"planner-api/modules/sync/router"
	"planner-api/modules/sync/service"
	tbrepo "planner-api/modules/timeblock/repository"
)

// Init initializes the sync module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	svc := NewService(db)
	ctrl := controller.NewSyncController(svc)
	rtr := router.NewSyncRouter(ctrl)

	rtr.Setup(e, mw)
}

// NewService builds a sync service for background jobs that run outside the
// HTTP wiring.
func NewService(db database.IDatabase) service.SyncServiceInterface {
	return service.NewSyncService(
		repository.NewIntegrationRepository(db),
		channelrepo.NewChannelRepository(db),
		tbrepo.NewTimeBlockRepository(db),
	)
}
