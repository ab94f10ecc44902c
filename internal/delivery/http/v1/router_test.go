package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-recruitment-crm/config"
	"go-recruitment-crm/internal/delivery/http/response"
	v1 "go-recruitment-crm/internal/delivery/http/v1"
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"
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

func (m *mockAuth) Login(ctx context.Context, req domain.LoginRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	args := m.Called(ctx, req, meta)
	if r, ok := args.Get(0).(*domain.AuthResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCandidates struct {
	mock.Mock
	domain.CandidateUsecase
}

func (m *mockCandidates) List(ctx context.Context, filter domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(*domain.PaginatedResult[domain.Candidate]), args.Error(1)
}

type mockAnalytics struct {
	mock.Mock
	domain.AnalyticsUsecase
}

func (m *mockAnalytics) Export(ctx context.Context, userID string, req domain.ExportRequest) (*domain.ExportFile, error) {
	args := m.Called(ctx, userID, req)
	if f, ok := args.Get(0).(*domain.ExportFile); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

type stubHealth struct{ report usecase.HealthReport }

func (s stubHealth) Check(context.Context) usecase.HealthReport { return s.report }

type fixture struct {
	auth       *mockAuth
	candidates *mockCandidates
	analytics  *mockAnalytics
	health     *stubHealth
	router     *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		auth:       new(mockAuth),
		candidates: new(mockCandidates),
		analytics:  new(mockAnalytics),
		health:     &stubHealth{report: usecase.HealthReport{Status: usecase.HealthOK, Checks: map[string]string{"database": usecase.HealthOK}}},
	}
	f.auth.On("Authenticate", mock.Anything, "consultant-token").
		Return(&domain.Principal{UserID: "11111111-1111-1111-1111-111111111111", Role: domain.RoleConsultant}, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything, "manager-token").
		Return(&domain.Principal{UserID: "22222222-2222-2222-2222-222222222222", Role: domain.RoleManager}, nil).Maybe()

	f.router = v1.NewRouter(v1.RouterDeps{
		AuthUC:      f.auth,
		CandidateUC: f.candidates,
		AnalyticsUC: f.analytics,
		Health:      f.health,
		Config: &config.Config{
			ServiceName:              "crm-test",
			RateLimitWindowSeconds:   60,
			RateLimitGlobalThreshold: 10000,
			RateLimitLoginThreshold:  10000,
			AIUserLimitPerMin:        10000,
		},
	})
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func fields(errs []apperror.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Meta.RequestID)

	f.health.report = usecase.HealthReport{
		Status: usecase.HealthDown,
		Checks: map[string]string{"database": usecase.HealthDown, "redis": usecase.HealthOK},
	}
	w = f.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, []string{"database"}, fields(body.Errors))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.KindNotFound, decode(t, w).Errors[0].Code)

	w = f.do(http.MethodPost, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", mock.Anything, domain.LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"}, mock.Anything).
		Return(&domain.AuthResult{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer", ExpiresIn: 900}, nil)

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"s3cret-pass"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "at", data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.Empty(t, body.Errors)
}

func TestLogin_ErrorEnvelope(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.WithKind(apperror.KindMissingEmail, "email", "Email is required"))

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"password":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, apperror.KindMissingEmail, body.Errors[0].Code)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture()
	f.auth.On("Authenticate", mock.Anything, "expired").Return(nil, apperror.Unauthorized("Token expired"))

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/candidates", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/v1/candidates", "expired", "").Code)
}

func TestCreateCandidate_Validation(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/candidates", "consultant-token", `{"last_name":"Smith","email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.ElementsMatch(t, []string{"first_name", "email"}, fields(body.Errors))
	for _, e := range body.Errors {
		assert.Equal(t, apperror.KindValidation, e.Code)
	}
}

func TestGetCandidate_InvalidID(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/candidates/42", "consultant-token", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"id"}, fields(decode(t, w).Errors))
}

func TestListCandidates_PaginationMeta(t *testing.T) {
	f := newFixture()
	page := domain.PageQuery{Page: 2, PageSize: 20}
	f.candidates.On("List", mock.Anything, mock.MatchedBy(func(filter domain.CandidateFilter) bool {
		return filter.Page == 2 && filter.PageSize == 20
	})).Return(domain.NewPaginatedResult([]domain.Candidate{{ID: "c-1"}, {ID: "c-2"}}, 45, page), nil)

	w := f.do(http.MethodGet, "/api/v1/candidates?page=2&page_size=20", "consultant-token", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 20, body.Meta.PageSize)
	require.NotNil(t, body.Meta.Total)
	assert.Equal(t, int64(45), *body.Meta.Total)
	assert.Equal(t, 3, *body.Meta.TotalPages)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/admin/users", "manager-token", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.KindForbidden, decode(t, w).Errors[0].Code)
}

func TestExport(t *testing.T) {
	t.Run("streams the file", func(t *testing.T) {
		f := newFixture()
		f.analytics.On("Export", mock.Anything, "22222222-2222-2222-2222-222222222222", domain.ExportRequest{Type: "candidates", Format: "csv"}).
			Return(&domain.ExportFile{Filename: "candidates.csv", ContentType: "text/csv", Rows: 1, Data: []byte("id,name\n1,Ana\n")}, nil)

		w := f.do(http.MethodGet, "/api/v1/analytics/export?type=candidates&format=csv", "manager-token", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="candidates.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Equal(t, "id,name\n1,Ana\n", w.Body.String())
	})

	t.Run("archived export returns a link", func(t *testing.T) {
		f := newFixture()
		f.analytics.On("Export", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.ExportFile{Filename: "applications.xlsx", URL: "https://example.com/x"}, nil)

		w := f.do(http.MethodGet, "/api/v1/analytics/export?type=applications&archive=true", "manager-token", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, "https://example.com/x", data["url"])
	})

	t.Run("type is required", func(t *testing.T) {
		f := newFixture()

		w := f.do(http.MethodGet, "/api/v1/analytics/export", "manager-token", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"type"}, fields(decode(t, w).Errors))
	})
}
