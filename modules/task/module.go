package task

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/audit"
	"planner-api/core/database"
	"planner-api/core/middleware"
	"planner-api/modules/task/controller"
	"planner-api/modules/task/repository"
	"planner-api/modules/task/router"
	"planner-api/modules/task/service"
)

// Init initializes the task module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewTaskRepository(db)
	svc := service.NewTaskService(repo, audit.NewRecorder(db))
	ctrl := controller.NewTaskController(svc)
	rtr := router.NewTaskRouter(ctrl)

	rtr.Setup(e, mw)
}

// NewService builds a task service for background jobs that run outside the
// HTTP wiring.
func NewService(db database.IDatabase) service.TaskServiceInterface {
	return service.NewTaskService(repository.NewTaskRepository(db), audit.NewRecorder(db))
}
