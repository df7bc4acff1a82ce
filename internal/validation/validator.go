package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// clockRegex matches a time of day as HH:MM or HH:MM:SS.
var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// Validator adapts go-playground/validator to echo.Validator.
//
// It is built once at startup and installed on the Echo instance; handlers
// reach it through echo.Context.Validate.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports JSON field names and knows the
// custom "clock" rule.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("clock", validateClock); err != nil {
		panic(err)
	}

	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// fieldName reports the JSON name of a field, falling back to its path
// parameter name for fields that never come from the body.
func fieldName(fld reflect.StructField) string {
	if name, _, _ := strings.Cut(fld.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	if name := fld.Tag.Get("param"); name != "" {
		return name
	}
	return fld.Name
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}
