// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request IDs, request logging, metrics, CORS, rate limiting, panic
// recovery and the global error handler.
package middleware
