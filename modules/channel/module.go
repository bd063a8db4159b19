package channel

import (
	"github.com/labstack/echo/v4"

	"planner-api/core/database"
	"planner-api/core/middleware"
	"planner-api/modules/channel/controller"
	"planner-api/modules/channel/repository"
	"planner-api/modules/channel/router"
	"planner-api/modules/channel/service"
)

// Init initializes the channel module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewChannelRepository(db)
	svc := service.NewChannelService(repo)
	ctrl := controller.NewChannelController(svc)
	rtr := router.NewChannelRouter(ctrl)

	rtr.Setup(e, mw)
}
