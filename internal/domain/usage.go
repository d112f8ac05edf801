package domain

import "context"

type usageKey struct{}

// Usage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// services write after each provider call; the handler reads it for response headers.
type Usage struct {
	EmbeddingTokens  int
	CompletionTokens int
	Embedded         bool // true if embedding was called, even on a cache hit with 0 tokens
	Completed        bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbeddingTokens records tokens consumed by the embedding provider.
func (u *Usage) AddEmbeddingTokens(n int) {
	if u != nil {
		u.EmbeddingTokens += n
		u.Embedded = true
	}
}

// AddCompletionTokens records tokens consumed by the chat provider.
func (u *Usage) AddCompletionTokens(n int) {
	if u != nil {
		u.CompletionTokens += n
		u.Completed = true
	}
}
