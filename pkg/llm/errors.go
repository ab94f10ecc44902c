package llm

import (
	"errors"
	"fmt"
	"net/http"

	"go-recruitment-crm/pkg/apperror"
)

var ErrNotConfigured = errors.New("llm: provider API key not configured")

// UpstreamError is a non-2xx answer from the model API.
type UpstreamError struct {
	Provider string
	Status   int
	Kind     apperror.Kind
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d (%s): %s", e.Provider, e.Status, e.Kind, e.Message)
}

// Retryable reports whether the same request may succeed later.
func (e *UpstreamError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// KindForUpstreamStatus maps the model API status to our error taxonomy.
// Credential problems on our side surface to clients as server_error.
func KindForUpstreamStatus(status int) apperror.Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return apperror.KindRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperror.KindServer
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusRequestEntityTooLarge:
		return apperror.KindValidation
	default:
		return apperror.KindServer
	}
}

func newUpstreamError(provider string, status int, message string) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Status:   status,
		Kind:     KindForUpstreamStatus(status),
		Message:  message,
	}
}

// ToAppError converts provider failures into client-facing errors.
func ToAppError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrNotConfigured) {
		return apperror.New(http.StatusServiceUnavailable, "AI features are not configured", err)
	}

	var up *UpstreamError
	if errors.As(err, &up) {
		switch up.Kind {
		case apperror.KindRateLimited:
			e := apperror.TooManyRequests("AI service is busy, please retry shortly")
			e.Err = err
			return e
		case apperror.KindValidation:
			e := apperror.BadRequest("AI service rejected the request")
			e.Err = err
			return e
		}
		return apperror.New(http.StatusBadGateway, "AI service is unavailable", err)
	}

	var se *SchemaError
	if errors.As(err, &se) {
		return apperror.New(http.StatusBadGateway, "AI service returned an unexpected answer", err)
	}
	return apperror.New(http.StatusBadGateway, "AI service is unavailable", err)
}
