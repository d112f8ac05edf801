package embedding

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

// Encoder turns texts into unit-length vectors.
// It is the last link of the embedding chain: every vector leaving it has
// L2 norm 1 (zero vectors excepted) and the configured dimension.
type Encoder struct {
	inner      domain.Embedder
	dimensions int
}

// NewEncoder wraps an embedder. dimensions <= 0 accepts any length,
// but all vectors of one call must still agree.
func NewEncoder(inner domain.Embedder, dimensions int) *Encoder {
	return &Encoder{inner: inner, dimensions: dimensions}
}

// Dimensions returns the configured vector length (0 = unchecked).
func (e *Encoder) Dimensions() int { return e.dimensions }

// EncodeOne encodes a single text.
func (e *Encoder) EncodeOne(ctx context.Context, text string) ([]float32, error) {
	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := e.checkDim(res.Embedding, len(res.Embedding)); err != nil {
		return nil, err
	}
	vec := slices.Clone(res.Embedding)
	domain.L2Normalize(vec)
	return vec, nil
}

// Encode encodes texts in input order. Empty input returns an empty result
// without calling the provider.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var (
		res domain.BatchEmbeddingResult
		err error
	)
	if be, ok := e.inner.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, e.inner, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d",
			domain.ErrEmbeddingProviderError, len(texts), len(res.Embeddings))
	}

	want := len(res.Embeddings[0])
	for i, vec := range res.Embeddings {
		if err := e.checkDim(vec, want); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}
	out := make([][]float32, len(res.Embeddings))
	for i, vec := range res.Embeddings {
		out[i] = slices.Clone(vec)
		domain.L2Normalize(out[i])
	}
	return out, nil
}

// checkDim verifies vec against the configured dimension, or against want
// when none is configured.
func (e *Encoder) checkDim(vec []float32, want int) error {
	if e.dimensions > 0 {
		want = e.dimensions
	}
	if len(vec) == 0 || len(vec) != want {
		return fmt.Errorf("%w: got %d, expected %d", domain.ErrVectorDimMismatch, len(vec), want)
	}
	return nil
}
