package timeblock

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/audit"
	"planner-api/core/database"
	"planner-api/core/middleware"
	"planner-api/modules/timeblock/controller"
	"planner-api/modules/timeblock/repository"
	"planner-api/modules/timeblock/router"
	"planner-api/modules/timeblock/service"
)

// Init initializes the timeblock module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewTimeBlockRepository(db)
	svc := service.NewTimeBlockService(repo, audit.NewRecorder(db))
	ctrl := controller.NewTimeBlockController(svc)
	rtr := router.NewTimeBlockRouter(ctrl)

	rtr.Setup(e, mw)
}
