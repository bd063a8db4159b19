package focus

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/database"
	"planner-api/core/middleware"
	"planner-api/modules/focus/controller"
	"planner-api/modules/focus/repository"
	"planner-api/modules/focus/router"
	"planner-api/modules/focus/service"
)

// Init initializes the focus module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewFocusRepository(db)
	svc := service.NewFocusService(repo)
	ctrl := controller.NewFocusController(svc)
	rtr := router.NewFocusRouter(ctrl)

	rtr.Setup(e, mw)
}
