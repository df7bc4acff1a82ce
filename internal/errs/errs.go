// Package errs defines the error types returned to API clients.
//
// Every error that leaves a handler ends up as an HTTPError so that
// clients always receive the same JSON shape, including field-level
// validation errors when the request payload was rejected.
package errs
