package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-jobboard-backend/pkg/apperror"
)

// Violations converts validator.ValidationErrors into one entry per
// failing field, so clients see every violation at once instead of the
// first only.
func Violations(err error) []apperror.FieldViolation {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldViolation{{Field: "request", Message: err.Error()}}
	}

	violations := make([]apperror.FieldViolation, 0, len(validationErrors))
	for _, e := range validationErrors {
		violations = append(violations, apperror.FieldViolation{
			Field:   fieldName(e),
			Message: message(e),
		})
	}
	return violations
}

// AsError wraps the violations in a VALIDATION_FAILED AppError.
func AsError(err error) *apperror.AppError {
	return apperror.Validation(Violations(err))
}

func fieldName(e validator.FieldError) string {
	// StructNamespace is "Request.Field"; drop the leading struct name.
	parts := strings.SplitN(e.StructNamespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	case "len":
		return fmt.Sprintf("must be exactly %s characters", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(param), ", "))
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "gte":
		return fmt.Sprintf("must be at least %s", param)
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
