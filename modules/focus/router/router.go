package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/focus/controller"
)

// FocusRouter handles focus session routes
type FocusRouter struct {
	FocusController *controller.FocusController
}

func NewFocusRouter(focusController *controller.FocusController) *FocusRouter {
	return &FocusRouter{
		FocusController: focusController,
	}
}

// Setup registers focus session routes
func (r *FocusRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/focus-sessions", mw.AuthMiddleware())
	routes.POST("", r.FocusController.Start)
	routes.GET("", r.FocusController.List)
	routes.GET("/current", r.FocusController.Current)
	routes.POST("/:id/stop", r.FocusController.Stop)
}
