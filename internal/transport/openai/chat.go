package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/metrics"
)

// Compile-time check: Chat implements domain.ChatCompleter.
var _ domain.ChatCompleter = (*Chat)(nil)

// Chat is a non-streaming chat completion client for OpenAI-compatible APIs.
type Chat struct {
	client *openai.Client
	user   string
	logger *zap.Logger
}

// NewChat creates a chat completion client. Model is chosen per request.
func NewChat(cfg *Config) *Chat {
	return &Chat{
		client: newClient(cfg.APIKey, cfg.BaseURL),
		user:   cfg.User,
		logger: cfg.Logger,
	}
}

// Complete sends one completion request and returns the first choice.
func (c *Chat) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		User:        c.user,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(req.Model, "error").Inc()
		return domain.ChatResult{}, parseAPIError("chat", err, domain.ErrChatProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(req.Model, "error").Inc()
		return domain.ChatResult{}, fmt.Errorf("chat response has no choices: %w", domain.ErrChatProviderError)
	}

	metrics.ChatRequestsTotal.WithLabelValues(req.Model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(req.Model).Observe(duration.Seconds())
	metrics.ChatTokensTotal.WithLabelValues(req.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.ChatTokensTotal.WithLabelValues(req.Model, "completion").Add(float64(resp.Usage.CompletionTokens))

	c.logger.Debug("Chat completion finished",
		zap.String("model", req.Model),
		zap.Duration("duration", duration),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return domain.ChatResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
