package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/planning/controller"
)

// PlanningRouter handles planning session routes
type PlanningRouter struct {
	PlanningController *controller.PlanningController
}

func NewPlanningRouter(planningController *controller.PlanningController) *PlanningRouter {
	return &PlanningRouter{
		PlanningController: planningController,
	}
}

// Setup registers planning session routes
func (r *PlanningRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/planning-sessions", mw.AuthMiddleware())
	routes.POST("", r.PlanningController.Create)
	routes.GET("", r.PlanningController.List)
	routes.POST("/:id/complete", r.PlanningController.Complete)
}
