// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/controller"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/middleware"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

type TraceConfig struct {
	Enabled bool
	Nodes   int
}

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
	eventBus *util.EventBus,
	trace TraceConfig,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	if trace.Enabled {
		router.Use(middleware.Trace(eventBus, trace.Nodes))
	}

	api := router.Group("/api/v1")

	controllers.Access.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)
	controllers.Badge.RegisterRoutes(api)
	controllers.Profile.RegisterRoutes(api)
	controllers.Import.RegisterRoutes(api)

	return router
}
