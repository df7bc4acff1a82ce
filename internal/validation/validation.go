// Package validation binds and validates request payloads.
//
// It uses go-playground/validator to enforce the rules declared in struct
// tags and turns both binding and validation failures into field-level
// errors the client can act on.
package validation
