package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-recruitment-crm/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	cases := map[int]apperror.Kind{
		http.StatusBadRequest:          apperror.KindValidation,
		http.StatusUnauthorized:        apperror.KindInvalidCredentials,
		http.StatusForbidden:           apperror.KindAccountDisabled,
		http.StatusUnprocessableEntity: apperror.KindValidation,
		http.StatusTooManyRequests:     apperror.KindRateLimited,
		http.StatusInternalServerError: apperror.KindServer,
		http.StatusBadGateway:          apperror.KindServer,
		http.StatusServiceUnavailable:  apperror.KindServer,
		http.StatusConflict:            apperror.KindConflict,
		http.StatusTeapot:              apperror.KindValidation,
	}
	for status, want := range cases {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			assert.Equal(t, want, apperror.KindForStatus(status))
		})
	}

	assert.Equal(t, apperror.Kind(""), apperror.KindForStatus(http.StatusOK))
}

func TestStatusForKindRoundTrip(t *testing.T) {
	for _, kind := range []apperror.Kind{
		apperror.KindInvalidCredentials,
		apperror.KindAccountDisabled,
		apperror.KindValidation,
		apperror.KindRateLimited,
		apperror.KindServer,
	} {
		assert.Equal(t, kind, apperror.KindForStatus(apperror.StatusForKind(kind)))
	}

	assert.Equal(t, http.StatusBadRequest, apperror.StatusForKind(apperror.KindMissingEmail))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusForKind(apperror.KindMissingPassword))
}

func TestAppErrorWrapping(t *testing.T) {
	root := errors.New("connection refused")
	err := fmt.Errorf("load user: %w", apperror.Internal(root))

	assert.Equal(t, apperror.KindServer, apperror.KindOf(err))
	assert.ErrorIs(t, err, root)
	assert.Equal(t, apperror.KindServer, apperror.KindOf(errors.New("plain")))

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestWithKindFieldErrors(t *testing.T) {
	err := apperror.WithKind(apperror.KindMissingEmail, "email", "Email is required")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, []apperror.FieldError{{Code: apperror.KindMissingEmail, Field: "email", Message: "Email is required"}}, err.Errors())

	v := apperror.Validation("Invalid input", []apperror.FieldError{
		{Code: apperror.KindValidation, Field: "title", Message: "title is required"},
		{Code: apperror.KindValidation, Field: "salary_max", Message: "salary_max must be >= salary_min"},
	})
	assert.Len(t, v.Errors(), 2)
}
