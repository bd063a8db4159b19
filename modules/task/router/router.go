package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/task/controller"
)

// TaskRouter handles task routes
type TaskRouter struct {
	TaskController *controller.TaskController
}

func NewTaskRouter(taskController *controller.TaskController) *TaskRouter {
	return &TaskRouter{
		TaskController: taskController,
	}
}

// Setup registers task routes
func (r *TaskRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/tasks", mw.AuthMiddleware())
	routes.POST("", r.TaskController.Create)
	routes.GET("", r.TaskController.List)
	routes.GET("/:id", r.TaskController.Get)
	routes.PATCH("/:id", r.TaskController.Update)
	routes.DELETE("/:id", r.TaskController.Delete)
}
