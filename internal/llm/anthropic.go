package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider using the Anthropic API directly,
// for setups where the headless claude CLI is not installed.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5-20250514"
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(b.Text)
		}
	}

	return &Response{
		Text:     strings.TrimSpace(text.String()),
		Provider: p.Name(),
		Elapsed:  time.Since(start),
	}, nil
}

func classifyAnthropicError(err error) *ProviderError {
	msg := err.Error()
	lower := strings.ToLower(msg)
	pe := &ProviderError{Err: err, Message: "anthropic api error"}

	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "authentication"):
		pe.Type = ErrorAuth
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate_limit"):
		pe.Type = ErrorRateLimit
	case strings.Contains(lower, "400") || strings.Contains(lower, "invalid_request"):
		pe.Type = ErrorInvalidInput
	case strings.Contains(lower, "500") || strings.Contains(lower, "overloaded"):
		pe.Type = ErrorProcess
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		pe.Type = ErrorTimeout
	case strings.Contains(lower, "connection") || strings.Contains(lower, "refused"):
		pe.Type = ErrorNetwork
	default:
		pe.Type = ErrorUnknown
	}
	return pe
}
