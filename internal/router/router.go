// Package router builds the Echo instance: middleware stack, error
// handler, validator and the route table.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gym-api/internal/handler"
	"github.com/deppfellow/gym-api/internal/middleware"
	"github.com/deppfellow/gym-api/internal/server"
)

// NewRouter wires middleware and routes. validator is installed as the
// Echo validator used by every handler.
func NewRouter(s *server.Server, h *handler.Handlers, validator echo.Validator) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.Validator = validator

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middleware.Metrics(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerMemberRoutes(router, h)
	registerWorkoutRoutes(router, h)

	return router
}
