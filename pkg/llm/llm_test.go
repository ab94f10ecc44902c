package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-recruitment-crm/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func anthropicServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int32)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		handler(w, r, n)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content":     []map[string]string{{"type": "text", "text": text}},
		"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
}

func newTestAnthropic(t *testing.T, url string) *AnthropicProvider {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", BaseURL: url, Model: "claude-test"})
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider_Complete(t *testing.T) {
	srv, _ := anthropicServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sys", body.System)
		assert.Equal(t, "hello", body.Messages[0].Content)
		assert.Equal(t, 2048, body.MaxTokens)
		writeText(w, `{"ok":true}`)
	})

	resp, err := newTestAnthropic(t, srv.URL).Complete(context.Background(), Request{System: "sys", Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, 10, resp.InputTokens)
}

func TestAnthropicProvider_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   apperror.Kind
		code   int
	}{
		{http.StatusTooManyRequests, apperror.KindRateLimited, http.StatusTooManyRequests},
		{http.StatusUnauthorized, apperror.KindServer, http.StatusBadGateway},
		{http.StatusBadRequest, apperror.KindValidation, http.StatusBadRequest},
		{http.StatusInternalServerError, apperror.KindServer, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv, _ := anthropicServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"some_error","message":"nope"}}`))
			})

			_, err := newTestAnthropic(t, srv.URL).Complete(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)

			var up *UpstreamError
			require.ErrorAs(t, err, &up)
			assert.Equal(t, tc.kind, up.Kind)
			assert.Contains(t, up.Message, "nope")

			appErr := ToAppError(err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.kind, appErr.Kind)
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("retries transient failures", func(t *testing.T) {
		srv, calls := anthropicServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
			if call < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeText(w, "done")
		})
		p := WithRetry(newTestAnthropic(t, srv.URL), RetryConfig{Attempts: 3, BaseDelay: time.Millisecond})

		resp, err := p.Complete(context.Background(), Request{Prompt: "x"})
		require.NoError(t, err)
		assert.Equal(t, "done", resp.Text)
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		srv, calls := anthropicServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		p := WithRetry(newTestAnthropic(t, srv.URL), RetryConfig{Attempts: 3, BaseDelay: time.Millisecond})

		_, err := p.Complete(context.Background(), Request{Prompt: "x"})
		assert.Equal(t, apperror.KindRateLimited, ToAppError(err).Kind)
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		srv, calls := anthropicServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		p := WithRetry(newTestAnthropic(t, srv.URL), RetryConfig{Attempts: 3, BaseDelay: time.Millisecond})

		_, err := p.Complete(context.Background(), Request{Prompt: "x"})
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})
}

func TestWithRateLimit_ContextCancelled(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	p := WithRateLimit(&stubProvider{text: "x"}, limiter)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, Request{Prompt: "x"})
	assert.Error(t, err)
}

type stubProvider struct {
	text  string
	calls int
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-1" }
func (s *stubProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	return &Response{Text: s.text, Model: "stub-1"}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestWithCache(t *testing.T) {
	stub := &stubProvider{text: `{"a":1}`}
	p := WithCache(stub, &memCache{data: map[string]string{}}, time.Hour)
	ctx := context.Background()

	first, err := p.Complete(ctx, Request{Prompt: "same"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := p.Complete(ctx, Request{Prompt: "same"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)

	_, err = p.Complete(ctx, Request{Prompt: "different"})
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestCacheKeyDependsOnModel(t *testing.T) {
	req := Request{System: "s", Prompt: "p"}
	assert.NotEqual(t, CacheKey("anthropic", "a", req), CacheKey("anthropic", "b", req))
	assert.Equal(t, CacheKey("gemini", "a", req), CacheKey("gemini", "a", req))
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"plain":      `{"a":1}`,
		"fenced":     "```json\n{\"a\":1}\n```",
		"with prose": "Here you go:\n{\"a\":1}\nHope it helps.",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := ExtractJSON(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, out)
		})
	}

	_, err := ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestValidateJSON(t *testing.T) {
	ok := []byte(`{"score": 80, "matched_skills": ["Go"], "missing_skills": [], "summary": "good", "recommendation": "yes"}`)
	assert.NoError(t, ValidateJSON("job_match", ok))

	bad := []byte(`{"score": 180, "matched_skills": [], "missing_skills": [], "summary": "", "recommendation": "absolutely"}`)
	err := ValidateJSON("job_match", bad)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Len(t, se.Violations, 2)

	assert.Error(t, ValidateJSON("nope", ok))
}

func TestRenderPrompt(t *testing.T) {
	req, err := RenderPrompt(PromptCVAnalysis, map[string]interface{}{
		"CVText":      "Senior Go engineer, 7 years.",
		"KnownSkills": []string{"Go", "PostgreSQL"},
	})
	require.NoError(t, err)
	assert.Contains(t, req.System, "JSON object")
	assert.Contains(t, req.Prompt, "Go, PostgreSQL")
	assert.Contains(t, req.Prompt, "Senior Go engineer")

	_, err = RenderPrompt("missing", nil)
	assert.Error(t, err)
}

func TestNewAnthropicProviderRequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, 503, ToAppError(err).Code)
}
