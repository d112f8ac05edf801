package embedding

import (
	"context"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	batchCalls int
	batchSizes []int
	// vectors, when set, is returned per batch position instead of result.Embedding
	vectors [][]float32
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:    append([]float32(nil), m.result.Embedding...),
		PromptTokens: m.result.PromptTokens,
		TotalTokens:  m.result.TotalTokens,
	}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		if m.vectors != nil {
			embeddings[i] = append([]float32(nil), m.vectors[i]...)
		} else {
			embeddings[i] = append([]float32(nil), m.result.Embedding...)
		}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

// plainMockEmbedder implements only Embedder, not BatchEmbedder.
type plainMockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *plainMockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:    append([]float32(nil), m.result.Embedding...),
		PromptTokens: m.result.PromptTokens,
		TotalTokens:  m.result.TotalTokens,
	}, nil
}
