package validation

import (
	"errors"
	"fmt"
	"strings"

	"go-recruitment-crm/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors converts validator errors into field errors for the
// response envelope. Non-validation errors (bad JSON) become a single entry.
func FormatValidationErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{
			Code:    apperror.KindValidation,
			Message: "Malformed request body",
		}}
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperror.FieldError{
			Code:    apperror.KindValidation,
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return out
}

// AsAppError wraps a binding failure as a 400 validation_error.
func AsAppError(err error) *apperror.AppError {
	return apperror.Validation("Validation failed", FormatValidationErrors(err))
}

func formatSingleError(e validator.FieldError) string {
	label := humanize(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "required_without", "required_if":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s items", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at most %s items", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", label, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' - /", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be a phone number of 7 to 15 digits", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "timezone":
		return fmt.Sprintf("%s must be an IANA time zone", label)
	case "otp_code":
		return fmt.Sprintf("%s must be a 6 digit code", label)
	case "gtfield", "gtefield":
		return fmt.Sprintf("%s must be greater than %s", label, humanize(param))
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", label, humanize(param))
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// humanize turns "first_name" or "FirstName" into "First name".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
