package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
)

// testTransport redirects every request to the test server.
type testTransport struct {
	targetURL string
	transport http.RoundTripper
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(t.targetURL)
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	transport := t.transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}

func chatClientFor(t *testing.T, server *httptest.Server) *ChatClient {
	t.Helper()
	hc := server.Client()
	hc.Transport = &testTransport{targetURL: server.URL, transport: hc.Transport}
	c, err := NewChatClient("test-key", WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("NewChatClient failed: %v", err)
	}
	return c
}

func TestNewChatClient_NoAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvGroqAPIKey, "")

	_, err := NewChatClient("")
	if !errors.Is(err, kbcerrors.ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvGroqAPIKey, "groq-key")

	if got := ResolveAPIKey(""); got != "groq-key" {
		t.Errorf("fallback = %q, want groq-key", got)
	}

	t.Setenv(EnvAPIKey, "kbc-key")
	if got := ResolveAPIKey(""); got != "kbc-key" {
		t.Errorf("env = %q, want kbc-key", got)
	}
	if got := ResolveAPIKey("configured"); got != "configured" {
		t.Errorf("configured = %q", got)
	}

	t.Setenv(EnvAPIKey, "your_api_key_here")
	t.Setenv(EnvGroqAPIKey, "")
	if got := ResolveAPIKey(""); got != "" {
		t.Errorf("placeholder should count as unset, got %q", got)
	}
}

func TestNewChatClient_Options(t *testing.T) {
	c, err := NewChatClient("k",
		WithBaseURL("http://localhost:1234/v1/"),
		WithModel("custom"),
		WithTemperature(0.2),
		WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewChatClient failed: %v", err)
	}
	if c.baseURL != "http://localhost:1234/v1" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if c.model != "custom" || c.temperature != 0.2 {
		t.Errorf("model = %q, temperature = %v", c.model, c.temperature)
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.httpClient.Timeout)
	}
}

func TestChatClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or invalid Authorization header")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Model != DefaultModel || req.MaxTokens != 1024 || req.ResponseFormat.Type != "json_object" {
			t.Errorf("request = %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "user text" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  ` + strings.ReplaceAll(validJSON, `"`, `\"`) + `  "}}]}`))
	}))
	defer server.Close()

	c := chatClientFor(t, server)
	content, err := c.Complete(context.Background(), Prompt{System: "sys", User: "user text"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != validJSON {
		t.Errorf("content = %q", content)
	}
}

func TestChatClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, kbcerrors.ErrProviderStatus},
		{"api error body", http.StatusOK, `{"error":{"message":"bad model"}}`, kbcerrors.ErrProviderStatus},
		{"no choices", http.StatusOK, `{"choices":[]}`, nil},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, nil},
		{"not json", http.StatusOK, `<html>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := chatClientFor(t, server).Complete(context.Background(), Prompt{User: "u"})
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestChatClient_WithRetryClient(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: validJSON}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	rec := &sleepRecorder{}
	client := newTestClient(chatClientFor(t, server), rec)

	q, err := client.Generate(context.Background(), "Indian Festivals & Traditions")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
	if q.Options[0] != "Kohima" {
		t.Errorf("Options = %v", q.Options)
	}
}
