package plan

import (
	"context"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
)

// Searcher finds the chunks closest to a free-text query.
type Searcher interface {
	Search(ctx context.Context, c *corpus.Corpus, query string, topK int) ([]result.Result, error)
}

// ChatCompleter sends the assembled prompt to a chat model.
type ChatCompleter interface {
	Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error)
}
