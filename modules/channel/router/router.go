package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/channel/controller"
)

// ChannelRouter handles channel routes
type ChannelRouter struct {
	ChannelController *controller.ChannelController
}

func NewChannelRouter(channelController *controller.ChannelController) *ChannelRouter {
	return &ChannelRouter{
		ChannelController: channelController,
	}
}

// Setup registers channel routes
func (r *ChannelRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/channels", mw.AuthMiddleware())
	routes.POST("", r.ChannelController.Create)
	routes.GET("", r.ChannelController.List)
	routes.GET("/:id", r.ChannelController.Get)
	routes.PATCH("/:id", r.ChannelController.Update)
	routes.DELETE("/:id", r.ChannelController.Delete)
}
