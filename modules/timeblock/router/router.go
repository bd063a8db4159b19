package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/timeblock/controller"
)

// TimeBlockRouter handles time-block routes
type TimeBlockRouter struct {
	TimeBlockController *controller.TimeBlockController
}

func NewTimeBlockRouter(timeBlockController *controller.TimeBlockController) *TimeBlockRouter {
	return &TimeBlockRouter{
		TimeBlockController: timeBlockController,
	}
}

// Setup registers time-block routes
func (r *TimeBlockRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/timeblocks", mw.AuthMiddleware())
	routes.POST("", r.TimeBlockController.Create)
	routes.GET("", r.TimeBlockController.List)
	routes.GET("/:id", r.TimeBlockController.Get)
	routes.PATCH("/:id", r.TimeBlockController.Update)
	routes.DELETE("/:id", r.TimeBlockController.Delete)
	routes.POST("/suggest", r.TimeBlockController.SuggestSlot)
}
