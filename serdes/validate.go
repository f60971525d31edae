package serdes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Internal singleton instance to allow custom tag registration.
var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared validator used when decoding bodies.
// Use this to register custom validation tags.
func Validator() *validator.Validate {
	return defaultValidator
}

// validateValue runs struct validation on v when it is a struct or a non-nil
// pointer to one. Other values are accepted as is.
func validateValue(v *validator.Validate, value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := v.Struct(value)
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return err
	}
	return &ValidationError{Fields: formatValidationErrors(vErrors)}
}

// formatValidationErrors converts validator errors into FieldErrors.
func formatValidationErrors(vErrors validator.ValidationErrors) []FieldError {
	errs := make([]FieldError, 0, len(vErrors))
	for _, vErr := range vErrors {
		errs = append(errs, FieldError{
			Field:   strings.ToLower(vErr.Field()),
			Rule:    vErr.Tag(),
			Message: createMsgForTag(vErr),
		})
	}
	return errs
}

// createMsgForTag generates an error message based on the failed validation tag.
func createMsgForTag(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length/value is %s", v.Param())
	case "max":
		return fmt.Sprintf("Maximum length/value is %s", v.Param())
	default:
		return fmt.Sprintf("Validation failed on rule: %s", v.Tag())
	}
}
