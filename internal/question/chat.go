package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the chat model used for question generation.
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultTemperature keeps answers varied without drifting off-format.
	DefaultTemperature = 0.7

	defaultMaxTokens = 1024
	defaultTimeout   = 30 * time.Second
)

// Credential environment variables, in lookup order.
const (
	EnvAPIKey      = "KBC_GENERATION_API_KEY"
	EnvGroqAPIKey  = "GROQ_API_KEY"
	placeholderKey = "your_api_key_here"
)

// Provider turns a prompt into raw model output.
type Provider interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ResolveAPIKey returns configured if set, else the first non-empty
// credential environment variable. A placeholder value counts as unset.
func ResolveAPIKey(configured string) string {
	for _, key := range []string{configured, os.Getenv(EnvAPIKey), os.Getenv(EnvGroqAPIKey)} {
		key = strings.TrimSpace(key)
		if key != "" && key != placeholderKey {
			return key
		}
	}
	return ""
}

// ChatClient is a Provider backed by an OpenAI-compatible chat completions
// API.
type ChatClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// ChatOption configures a ChatClient.
type ChatOption func(*ChatClient)

// WithBaseURL overrides the API root, e.g. "http://localhost:1234/v1".
func WithBaseURL(baseURL string) ChatOption {
	return func(c *ChatClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) ChatOption {
	return func(c *ChatClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(c *ChatClient) {
		c.temperature = t
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ChatOption {
	return func(c *ChatClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ChatOption {
	return func(c *ChatClient) {
		c.httpClient = hc
	}
}

// NewChatClient creates a ChatClient. An empty apiKey (after ResolveAPIKey)
// fails with errors.ErrNotConfigured.
func NewChatClient(apiKey string, opts ...ChatOption) (*ChatClient, error) {
	apiKey = ResolveAPIKey(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s or %s", kbcerrors.ErrNotConfigured, EnvAPIKey, EnvGroqAPIKey)
	}

	c := &ChatClient{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:    c.temperature,
		MaxTokens:      defaultMaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", kbcerrors.ErrProviderStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%w: %s", kbcerrors.ErrProviderStatus, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("response missing choices")
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from provider")
	}
	return content, nil
}
