package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider against the Anthropic Messages API.
// The request/response shape and *anthropic.Error handling are carried over
// directly from the teacher's internal/compact/haiku.go; this version
// generalizes the single hardcoded tier1 prompt into the general-purpose
// complete() contract and adds an embed() stub since Anthropic has no
// embeddings endpoint (schemadoc always pairs AnthropicProvider with
// OpenAIProvider for embeddings).
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider builds a provider from an explicit API key; an empty
// key falls back to ANTHROPIC_API_KEY.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...)}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, prompt, model string, maxTokens int) (string, TokenUsage, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", TokenUsage{}, wrapAnthropicError(err)
	}

	usage := TokenUsage{
		Prompt:     message.Usage.InputTokens,
		Completion: message.Usage.OutputTokens,
		Total:      message.Usage.InputTokens + message.Usage.OutputTokens,
	}

	if len(message.Content) == 0 {
		return "", usage, fmt.Errorf("anthropic: empty response: no content blocks")
	}
	block := message.Content[0]
	if block.Type != "text" {
		return "", usage, fmt.Errorf("anthropic: unexpected response format: not a text block (type=%s)", block.Type)
	}
	return block.Text, usage, nil
}

func (p *AnthropicProvider) Embed(ctx context.Context, texts []string, model string) ([][]float32, error) {
	return nil, errors.New("anthropic: embeddings are not supported by this provider; use OpenAIProvider")
}

// statusErr adapts an *anthropic.Error to the Classify StatusError shape.
type statusErr struct {
	status     int
	retryAfter int
	cause      error
}

func (e *statusErr) Error() string          { return e.cause.Error() }
func (e *statusErr) Unwrap() error          { return e.cause }
func (e *statusErr) StatusCode() int        { return e.status }
func (e *statusErr) RetryAfterSeconds() int { return e.retryAfter }

func wrapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &statusErr{status: apiErr.StatusCode, cause: err}
	}
	return err
}
