package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

type chatRequestBody struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
}

func chatServer(t *testing.T, got *chatRequestBody, choices []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-test",
			"choices": choices,
			"usage": map[string]int{
				"prompt_tokens":     120,
				"completion_tokens": 30,
				"total_tokens":      150,
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestChat(baseURL string) *Chat {
	return NewChat(&Config{APIKey: "test-key", BaseURL: baseURL, Logger: zap.NewNop()})
}

func TestChat_Complete(t *testing.T) {
	var body chatRequestBody
	server := chatServer(t, &body, []map[string]any{
		{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": "Day 1: review joins"}},
		{"index": 1, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": "ignored"}},
	})

	res, err := newTestChat(server.URL).Complete(context.Background(), domain.ChatRequest{
		Model: "gpt-test",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "sys"},
			{Role: domain.RoleUser, Content: "usr"},
		},
		Temperature: 0.2,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Content != "Day 1: review joins" {
		t.Errorf("expected first choice content, got %q", res.Content)
	}
	if res.PromptTokens != 120 || res.CompletionTokens != 30 || res.TotalTokens != 150 {
		t.Errorf("unexpected usage: %+v", res)
	}

	if body.Model != "gpt-test" || body.MaxTokens != 1000 || body.Temperature != 0.2 || body.Stream {
		t.Errorf("unexpected request: %+v", body)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Content != "usr" {
		t.Errorf("unexpected messages: %+v", body.Messages)
	}
}

func TestChat_NoChoices(t *testing.T) {
	server := chatServer(t, nil, []map[string]any{})

	_, err := newTestChat(server.URL).Complete(context.Background(), domain.ChatRequest{Model: "gpt-test"})
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}

func TestChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestChat(server.URL).Complete(context.Background(), domain.ChatRequest{Model: "gpt-test"})
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}
