package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

func assertUnit(t *testing.T, v []float32) {
	t.Helper()
	if n := domain.L2Norm(v); math.Abs(n-1) > 1e-5 {
		t.Errorf("expected unit norm, got %f for %v", n, v)
	}
}

func TestEncoder_EncodeOne_Normalizes(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{3, 4}}}
	enc := NewEncoder(inner, 2)

	vec, err := enc.EncodeOne(context.Background(), "How do I use joins?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertUnit(t, vec)
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", vec)
	}
}

func TestEncoder_Encode_OrderAndNorm(t *testing.T) {
	inner := &mockEmbedder{vectors: [][]float32{{2, 0, 0}, {0, 0, 5}, {1, 1, 1}}}
	enc := NewEncoder(inner, 3)

	vecs, err := enc.Encode(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	for _, v := range vecs {
		assertUnit(t, v)
	}
	if vecs[0][0] != 1 || vecs[1][2] != 1 {
		t.Errorf("order not preserved: %v", vecs)
	}
}

func TestEncoder_Encode_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	enc := NewEncoder(inner, 3)

	vecs, err := enc.Encode(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vecs == nil || len(vecs) != 0 {
		t.Errorf("expected empty non-nil result, got %v", vecs)
	}
	if inner.batchCalls != 0 {
		t.Errorf("expected no provider call, got %d", inner.batchCalls)
	}
}

func TestEncoder_Encode_Deterministic(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2, 2}}}
	enc := NewEncoder(inner, 3)

	a, err := enc.EncodeOne(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := enc.EncodeOne(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical vectors, got %v and %v", a, b)
		}
	}
}

func TestEncoder_DimensionMismatch(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	enc := NewEncoder(inner, 3)

	if _, err := enc.EncodeOne(context.Background(), "x"); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	if _, err := enc.Encode(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestEncoder_UncheckedDimensionsStillAgree(t *testing.T) {
	inner := &mockEmbedder{vectors: [][]float32{{1, 0}, {1, 0, 0}}}
	enc := NewEncoder(inner, 0)

	if _, err := enc.Encode(context.Background(), []string{"a", "b"}); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch for ragged batch, got %v", err)
	}
}

func TestEncoder_ProviderError(t *testing.T) {
	inner := &plainMockEmbedder{err: domain.ErrEmbeddingProviderError}
	enc := NewEncoder(inner, 0)

	if _, err := enc.EncodeOne(context.Background(), "x"); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if _, err := enc.Encode(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}
