package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type Provider string

const (
	ProviderQwen   Provider = "qwen"
	ProviderZhipu  Provider = "zhipu"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

const (
	qwenURL   = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	zhipuURL  = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	openaiURL = "https://api.openai.com/v1/chat/completions"

	temperature  = 0.7
	maxTokens    = 2000
	maxErrorBody = 500

	// NoReply is returned when the backend answers without any text.
	NoReply = "Unable to get a reply from the AI."
)

var defaultModels = map[Provider]string{
	ProviderQwen:   "qwen-turbo",
	ProviderZhipu:  "glm-4",
	ProviderOpenAI: "gpt-3.5-turbo",
	ProviderOllama: "llama3.2",
}

// ErrMissingAPIKey is a configuration error: a hosted backend was selected
// without a credential.
var ErrMissingAPIKey = errors.New("AI API key not configured. Please set AI_API_KEY environment variable.")

// ConfigError reports an unusable AI configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// UpstreamError is a non-success answer from the chat backend. Body is
// truncated.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI API error: %d - %s", e.Status, e.Body)
}

// AIConfig selects and configures the chat-completion backend.
type AIConfig struct {
	Provider Provider
	APIKey   string
	BaseURL  string // optional endpoint override
	Model    string // optional model override
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatProvider sends one conversation to a chat-completion backend and
// returns the reply text.
type ChatProvider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// NewChatProvider returns the backend named by cfg.Provider. Configuration
// problems are reported by Complete, so a misconfigured server still starts
// and answers each AI request with the error.
func NewChatProvider(cfg AIConfig, client *http.Client) ChatProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderQwen
	}
	model := cfg.Model
	if model == "" {
		model = defaultModels[cfg.Provider]
	}

	switch cfg.Provider {
	case ProviderQwen:
		return &hostedProvider{kind: cfg.Provider, url: orDefault(cfg.BaseURL, qwenURL), apiKey: cfg.APIKey, model: model, client: client}
	case ProviderZhipu:
		return &hostedProvider{kind: cfg.Provider, url: orDefault(cfg.BaseURL, zhipuURL), apiKey: cfg.APIKey, model: model, client: client}
	case ProviderOpenAI:
		return &hostedProvider{kind: cfg.Provider, url: orDefault(cfg.BaseURL, openaiURL), apiKey: cfg.APIKey, model: model, client: client}
	case ProviderOllama:
		var oc *api.Client
		if cfg.BaseURL != "" {
			u, err := url.Parse(cfg.BaseURL)
			if err != nil {
				return brokenProvider{err: &ConfigError{Message: fmt.Sprintf("invalid AI base URL: %v", err)}}
			}
			oc = api.NewClient(u, client)
		} else {
			var err error
			if oc, err = api.ClientFromEnvironment(); err != nil {
				return brokenProvider{err: &ConfigError{Message: fmt.Sprintf("ollama client: %v", err)}}
			}
		}
		return &ollamaProvider{client: oc, model: model}
	}
	return brokenProvider{err: &ConfigError{Message: fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider)}}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

type brokenProvider struct {
	err error
}

func (p brokenProvider) Complete(context.Context, []Message) (string, error) {
	return "", p.err
}

// hostedProvider speaks to qwen (DashScope), zhipu and OpenAI. Zhipu and
// OpenAI share the chat/completions shape; DashScope nests the messages
// under "input".
type hostedProvider struct {
	kind   Provider
	url    string
	apiKey string
	model  string
	client *http.Client
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
}

type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []Message `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	} `json:"parameters"`
}

type qwenResponse struct {
	Output struct {
		Text    string       `json:"text"`
		Choices []chatChoice `json:"choices"`
	} `json:"output"`
}

func (p *hostedProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	var payload any
	if p.kind == ProviderQwen {
		req := qwenRequest{Model: p.model}
		req.Input.Messages = messages
		req.Parameters.Temperature = temperature
		req.Parameters.MaxTokens = maxTokens
		payload = req
	} else {
		payload = chatCompletionRequest{Model: p.model, Messages: messages, Temperature: temperature, MaxTokens: maxTokens}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: truncate(strings.TrimSpace(string(respBody)), maxErrorBody)}
	}

	return extractReply(p.kind, respBody)
}

func extractReply(kind Provider, body []byte) (string, error) {
	if kind == ProviderQwen {
		var out qwenResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if out.Output.Text != "" {
			return out.Output.Text, nil
		}
		if len(out.Output.Choices) > 0 && out.Output.Choices[0].Message.Content != "" {
			return out.Output.Choices[0].Message.Content, nil
		}
		return NoReply, nil
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) > 0 && out.Choices[0].Message.Content != "" {
		return out.Choices[0].Message.Content, nil
	}
	return NoReply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cut on a rune boundary.
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// ollamaProvider talks to a local Ollama server. It needs no API key.
type ollamaProvider struct {
	client *api.Client
	model  string
}

func (p *ollamaProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}
	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}

	var reply strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		var se api.StatusError
		if errors.As(err, &se) {
			return "", &UpstreamError{Status: se.StatusCode, Body: truncate(se.ErrorMessage, maxErrorBody)}
		}
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	if reply.Len() == 0 {
		return NoReply, nil
	}
	return reply.String(), nil
}
