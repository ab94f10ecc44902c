package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// GeminiProvider uses the Gemini API through the genai SDK.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model, maxTokens: cfg.MaxTokens}, nil
}

func (p *GeminiProvider) Name() string  { return "gemini" }
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "llm.gemini.complete", trace.WithAttributes(
		attribute.String("llm.model", p.model),
		attribute.Int("llm.prompt_chars", len(req.Prompt)),
	))
	defer span.End()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	gc := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(maxTokens),
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		t := req.Temperature
		gc.Temperature = &t
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), gc)
	if err != nil {
		err = mapGeminiError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	text := result.Text()
	if text == "" {
		return nil, errors.New("empty response from Gemini")
	}

	resp := &Response{Text: text, Model: p.model}
	if u := result.UsageMetadata; u != nil {
		resp.InputTokens = int(u.PromptTokenCount)
		resp.OutputTokens = int(u.CandidatesTokenCount)
	}
	if len(result.Candidates) > 0 {
		resp.StopReason = string(result.Candidates[0].FinishReason)
	}
	return resp, nil
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return newUpstreamError("gemini", apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return newUpstreamError("gemini", apiErrPtr.Code, apiErrPtr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newUpstreamError("gemini", http.StatusGatewayTimeout, err.Error())
	}
	return fmt.Errorf("calling Gemini API: %w", err)
}
