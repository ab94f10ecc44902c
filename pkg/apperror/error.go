package apperror

import (
	"errors"
	"net/http"
)

// Kind is the machine readable error category returned to clients.
type Kind string

const (
	KindMissingEmail       Kind = "missing_email"
	KindMissingPassword    Kind = "missing_password"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountDisabled    Kind = "account_disabled"
	KindValidation         Kind = "validation_error"
	KindRateLimited        Kind = "rate_limited"
	KindServer             Kind = "server_error"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindForbidden          Kind = "forbidden"
)

// statusKinds is the fixed status -> kind table. Anything >= 500 that is not
// listed maps to server_error.
var statusKinds = map[int]Kind{
	http.StatusBadRequest:          KindValidation,
	http.StatusUnauthorized:        KindInvalidCredentials,
	http.StatusForbidden:           KindAccountDisabled,
	http.StatusNotFound:            KindNotFound,
	http.StatusMethodNotAllowed:    KindNotFound,
	http.StatusConflict:            KindConflict,
	http.StatusUnprocessableEntity: KindValidation,
	http.StatusTooManyRequests:     KindRateLimited,
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(status int) Kind {
	if k, ok := statusKinds[status]; ok {
		return k
	}
	if status >= 500 {
		return KindServer
	}
	if status >= 400 {
		return KindValidation
	}
	return ""
}

// StatusForKind is the inverse lookup used when a kind is raised without an
// explicit status.
func StatusForKind(kind Kind) int {
	switch kind {
	case KindMissingEmail, KindMissingPassword, KindValidation:
		return http.StatusBadRequest
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindAccountDisabled, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Code    Kind   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Errors flattens the error into the list rendered in the response envelope.
func (e *AppError) Errors() []FieldError {
	if len(e.Details) > 0 {
		return e.Details
	}
	return []FieldError{{Code: e.Kind, Field: e.Field, Message: e.Message}}
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindForStatus(code),
		Message: message,
		Err:     err,
	}
}

// WithKind builds an error from a kind, deriving the status code.
func WithKind(kind Kind, field, message string) *AppError {
	return &AppError{
		Code:    StatusForKind(kind),
		Kind:    kind,
		Field:   field,
		Message: message,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation returns a 400 carrying every failing field.
func Validation(message string, details []FieldError) *AppError {
	e := New(http.StatusBadRequest, message, nil)
	e.Details = details
	return e
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	e := New(http.StatusForbidden, message, nil)
	e.Kind = KindForbidden
	return e
}

func AccountDisabled(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// KindOf reports the kind of err, or server_error for unknown errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}
