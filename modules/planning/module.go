package planning

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/database"
	"planner-api/core/middleware"
	"planner-api/modules/planning/controller"
	"planner-api/modules/planning/repository"
	"planner-api/modules/planning/router"
	"planner-api/modules/planning/service"
)

// Init initializes the planning module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewPlanningRepository(db)
	svc := service.NewPlanningService(repo)
	ctrl := controller.NewPlanningController(svc)
	rtr := router.NewPlanningRouter(ctrl)

	rtr.Setup(e, mw)
}
