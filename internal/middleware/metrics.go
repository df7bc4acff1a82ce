package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gym-api/internal/metrics"
)

// Metrics records request count and latency per route template. Requests
// that matched no route are labelled "unmatched".
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" || route == "/*" {
				route = "unmatched"
			}

			status := statusFromError(c.Response().Status, err)
			metrics.ObserveHTTPRequest(c.Request().Method, route, status, time.Since(start))

			return err
		}
	}
}
