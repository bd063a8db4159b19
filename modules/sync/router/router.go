package router

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/middleware"
	"planner-api/modules/sync/controller"
)

// SyncRouter handles calendar integration routes
type SyncRouter struct {
	SyncController *controller.SyncController
}

func NewSyncRouter(syncController *controller.SyncController) *SyncRouter {
	return &SyncRouter{
		SyncController: syncController,
	}
}

// Setup registers sync routes
func (r *SyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	routes := v1.Group("/sync", mw.AuthMiddleware())
	routes.GET("/google/connect", r.SyncController.GoogleConnectURL)
	routes.POST("/google/connect", r.SyncController.GoogleCallback)
	routes.POST("/ical/connect", r.SyncController.ConnectICal)
	routes.GET("/status", r.SyncController.Status)
	routes.DELETE("/:provider", r.SyncController.Disconnect)
	routes.POST("/:provider/poll", r.SyncController.Poll)
}
