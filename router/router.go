// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/controller"
	"github.com/argus-admin/argus/api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	sessions *auth.Manager,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	// Login and remembered-credential lookup are reachable anonymously.
	controllers.Auth.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.TokenAuth(sessions))

	controllers.Auth.RegisterRoutes(protected)
	controllers.User.RegisterRoutes(protected)
	controllers.Role.RegisterRoutes(protected)
	controllers.Dept.RegisterRoutes(protected)

	return router
}
