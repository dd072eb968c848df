package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// OpenAIProvider implements Provider against the OpenAI chat completions and
// embeddings REST endpoints over plain net/http. No repo in the example
// corpus carries a Go OpenAI SDK as a dependency, so this talks to the
// documented JSON REST API directly rather than introducing an unrooted
// dependency (see DESIGN.md).
type OpenAIProvider struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewOpenAIProvider builds a provider from an explicit API key; an empty key
// falls back to OPENAI_API_KEY.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &OpenAIProvider{APIKey: apiKey, BaseURL: "https://api.openai.com/v1", HTTP: http.DefaultClient}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openAIChatRequest struct {
	Model     string              `json:"model"`
	Messages  []openAIChatMessage `json:"messages"`
	MaxTokens int                 `json:"max_completion_tokens,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
	Error *openAIErrorBody `json:"error,omitempty"`
}

type openAIErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt, model string, maxTokens int) (string, TokenUsage, error) {
	reqBody := openAIChatRequest{
		Model: model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}

	var chatResp openAIChatResponse
	status, retryAfter, err := p.doJSON(ctx, "/chat/completions", reqBody, &chatResp)
	if err != nil {
		return "", TokenUsage{}, err
	}
	if status >= 400 {
		msg := "openai: request failed"
		if chatResp.Error != nil {
			msg = fmt.Sprintf("openai: %s", chatResp.Error.Message)
		}
		return "", TokenUsage{}, &statusErr{status: status, retryAfter: retryAfter, cause: fmt.Errorf("%s", msg)}
	}

	usage := TokenUsage{
		Prompt:     chatResp.Usage.PromptTokens,
		Completion: chatResp.Usage.CompletionTokens,
		Total:      chatResp.Usage.TotalTokens,
	}
	if len(chatResp.Choices) == 0 {
		return "", usage, fmt.Errorf("openai: empty response: no choices")
	}
	return chatResp.Choices[0].Message.Content, usage, nil
}

type openAIEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *openAIErrorBody `json:"error,omitempty"`
}

func (p *OpenAIProvider) Embed(ctx context.Context, texts []string, model string) ([][]float32, error) {
	reqBody := openAIEmbedRequest{Model: model, Input: texts}

	var embedResp openAIEmbedResponse
	status, retryAfter, err := p.doJSON(ctx, "/embeddings", reqBody, &embedResp)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		msg := "openai: embeddings request failed"
		if embedResp.Error != nil {
			msg = fmt.Sprintf("openai: %s", embedResp.Error.Message)
		}
		return nil, &statusErr{status: status, retryAfter: retryAfter, cause: fmt.Errorf("%s", msg)}
	}

	out := make([][]float32, len(texts))
	for _, d := range embedResp.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out, nil
}

func (p *OpenAIProvider) doJSON(ctx context.Context, path string, body any, out any) (status int, retryAfterSeconds int, err error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, 0, err
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if decErr := json.Unmarshal(data, out); decErr != nil && resp.StatusCode < 400 {
			return resp.StatusCode, 0, fmt.Errorf("openai: decoding response: %w", decErr)
		}
	}

	retryAfter := parseRetryAfterHeader(resp.Header.Get("Retry-After"))
	return resp.StatusCode, retryAfter, nil
}
