// Package llm talks to hosted large-language-model APIs. Providers return
// raw completions; callers extract and validate JSON with ExtractJSON and
// ValidateJSON.
package llm

import (
	"context"
	"fmt"
	"time"

	"go-recruitment-crm/config"

	"golang.org/x/time/rate"
)

type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	// Temperature is only sent when > 0.
	Temperature float32
}

type Response struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
	Cached       bool
}

type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// NewFromConfig builds the configured provider wrapped with throttling,
// retries and, when cache is non-nil, response caching.
func NewFromConfig(ctx context.Context, cfg *config.Config, cache Cache) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.AIProvider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			MaxTokens: cfg.AIMaxTokens,
		})
	case "anthropic", "":
		base, err = NewAnthropicProvider(AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			BaseURL:   cfg.AnthropicBaseURL,
			Model:     cfg.AnthropicModel,
			MaxTokens: cfg.AIMaxTokens,
			Timeout:   cfg.AIRequestTimeout,
		})
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}

	rps := cfg.AIRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	p := WithRetry(WithRateLimit(base, rate.NewLimiter(rate.Limit(rps), burst)), RetryConfig{
		Attempts:  3,
		BaseDelay: time.Second,
	})
	if cache != nil {
		p = WithCache(p, cache, cfg.AICacheTTL)
	}
	return p, nil
}
