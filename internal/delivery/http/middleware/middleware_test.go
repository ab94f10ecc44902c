package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-recruitment-crm/internal/delivery/http/middleware"
	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuth struct {
	mock.Mock
	domain.AuthUsecase
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	args := m.Called(ctx, token)
	if p, ok := args.Get(0).(*domain.Principal); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.NoRoute(middleware.NoRoute)
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/ping", func(c *gin.Context) { response.Success(c, http.StatusOK, "pong", nil) })

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(middleware.RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, decode(t, w).Meta.RequestID)
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", decode(t, w).Meta.RequestID)
	})

	t.Run("garbage replaced", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "<script>")
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "<script>", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperror.Conflict("Already exists")) })
	r.GET("/field", func(c *gin.Context) {
		_ = c.Error(apperror.WithKind(apperror.KindMissingEmail, "email", "Email is required"))
	})
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	tests := []struct {
		path    string
		status  int
		kind    apperror.Kind
		field   string
		message string
	}{
		{"/conflict", http.StatusConflict, apperror.KindConflict, "", "Already exists"},
		{"/field", http.StatusBadRequest, apperror.KindMissingEmail, "email", "Email is required"},
		{"/boom", http.StatusInternalServerError, apperror.KindServer, "", "An unexpected error occurred. Please try again later."},
		{"/nowhere", http.StatusNotFound, apperror.KindNotFound, "", "Resource not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)

			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.kind, body.Errors[0].Code)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Authenticate", mock.Anything, "good").Return(&domain.Principal{UserID: "u1", Email: "a@b.c", Role: domain.RoleManager}, nil)
	auth.On("Authenticate", mock.Anything, "disabled").Return(nil, apperror.AccountDisabled("This account has been disabled"))
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, apperror.Unauthorized("Invalid token"))

	r := newEngine()
	protected := r.Group("", middleware.AuthMiddleware(auth))
	protected.GET("/me", func(c *gin.Context) {
		p, ok := domain.PrincipalFrom(c)
		require.True(t, ok)
		response.Success(c, http.StatusOK, "", p.UserID)
	})
	protected.GET("/admin", middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "", nil)
	})

	do := func(path, header string, cookie *http.Cookie) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if cookie != nil {
			req.AddCookie(cookie)
		}
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Basic Zm9vOmJhcg==", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer bad", nil).Code)

	w := do("/me", "Bearer disabled", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.KindAccountDisabled, decode(t, w).Errors[0].Code)

	w = do("/me", "Bearer good", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w).Data)

	w = do("/me", "", &http.Cookie{Name: middleware.AccessTokenCookie, Value: "good"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("/admin", "Bearer good", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.KindForbidden, decode(t, w).Errors[0].Code)
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	r := newEngine()
	cfg := middleware.GlobalRateLimitConfig(2, time.Minute)
	cfg.KeyPrefix = "rl:test:" + t.Name() + ":"
	r.GET("/limited", middleware.RateLimitMiddleware(cfg), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "", nil)
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/limited", nil))
		if i < 2 {
			assert.Equal(t, http.StatusOK, last.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, apperror.KindRateLimited, decode(t, last).Errors[0].Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware([]string{"https://crm.example.com"}, true))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://crm.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://crm.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
