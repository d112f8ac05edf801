package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
)

// --- Mocks ---

type mockEncoder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEncoder) EncodeOne(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.err
}

type mockIndex struct {
	matches []corpus.Match
	size    int
	err     error
	lastK   int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]corpus.Match, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(m.matches) > k {
		return m.matches[:k], nil
	}
	return m.matches, nil
}

func (m *mockIndex) Len() int { return m.size }

func slideCorpus(t *testing.T, idx *mockIndex) *corpus.Corpus {
	t.Helper()
	rows := []chunk.Chunk{
		chunk.NewWithPage("slides1.pdf", 1, "Intro"),
		chunk.NewWithPage("slides3.pdf", 12, "Confusion matrix defined"),
		chunk.New("slides9.pdf", "Pageless slide"),
	}
	idx.size = len(rows)
	c, err := corpus.New(chunk.Slide, idx, rows)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	return c
}

func labCorpus(t *testing.T, idx *mockIndex) *corpus.Corpus {
	t.Helper()
	rows := []chunk.Chunk{
		chunk.New("lab1.ipynb", "Joins practice"),
		chunk.New("lab2.ipynb", "Group by"),
	}
	idx.size = len(rows)
	c, err := corpus.New(chunk.Lab, idx, rows)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	return c
}

// --- Tests ---

func TestSearch_Slides(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 1, Score: 0.91}, {Position: 0, Score: 0.40}}}
	c := slideCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1, 0}})

	res, err := svc.Search(context.Background(), c, "I struggle with confusion matrices", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if res[0].File() != "slides3.pdf" || res[0].Text() != "Confusion matrix defined" {
		t.Errorf("unexpected first result: %s %q", res[0].File(), res[0].Text())
	}
	if p, ok := res[0].Page(); !ok || p != 12 {
		t.Errorf("expected page 12, got %d,%v", p, ok)
	}
	if res[0].Source() != chunk.Slide {
		t.Errorf("expected slide source, got %q", res[0].Source())
	}
}

func TestSearch_LabsHaveNoPage(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 0, Score: 0.8}}}
	c := labCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "joins", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res[0].Page(); ok {
		t.Error("lab results must not carry a page")
	}
	if res[0].File() != "lab1.ipynb" {
		t.Errorf("unexpected file %q", res[0].File())
	}
}

func TestSearch_DropsNoMatchPositions(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{
		{Position: corpus.NoMatch, Score: 0.99},
		{Position: 1, Score: 0.5},
		{Position: corpus.NoMatch, Score: 0.1},
	}}
	c := slideCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].File() != "slides3.pdf" {
		t.Fatalf("expected only the resolved match, got %d results", len(res))
	}
}

func TestSearch_OrderedByScoreStable(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{
		{Position: 0, Score: 0.5},
		{Position: 2, Score: 0.7},
		{Position: 1, Score: 0.5},
	}}
	c := slideCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"slides9.pdf", "slides1.pdf", "slides3.pdf"}
	for i, w := range want {
		if res[i].File() != w {
			t.Errorf("position %d = %s, want %s", i, res[i].File(), w)
		}
	}
	for i := 1; i < len(res); i++ {
		if res[i-1].Score() < res[i].Score() {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

func TestSearch_CapsToTopK(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 0, Score: 0.9}, {Position: 1, Score: 0.8}, {Position: 2, Score: 0.7}}}
	c := slideCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if idx.lastK != 2 {
		t.Errorf("expected index queried with k=2, got %d", idx.lastK)
	}
}

func TestSearch_TopKLargerThanCorpus(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 1, Score: 0.6}, {Position: 0, Score: 0.3}}}
	c := labCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "q", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
}

func TestSearch_Idempotent(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 2, Score: 0.6}, {Position: 0, Score: 0.6}}}
	c := slideCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	a, err := svc.Search(context.Background(), c, "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Search(context.Background(), c, "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i].File() != b[i].File() || a[i].Score() != b[i].Score() {
			t.Fatalf("results differ at %d", i)
		}
	}
}

func TestSearch_InvalidTopK(t *testing.T) {
	enc := &mockEncoder{vec: []float32{1}}
	c := slideCorpus(t, &mockIndex{})
	svc := New(enc)

	for _, k := range []int{0, -3} {
		_, err := svc.Search(context.Background(), c, "q", k)
		if !errors.Is(err, domain.ErrInvalidTopK) {
			t.Errorf("k=%d: expected ErrInvalidTopK, got %v", k, err)
		}
	}
	if enc.calls != 0 {
		t.Errorf("encoder must not be called for invalid top-k, got %d calls", enc.calls)
	}
}

func TestSearch_PositionOutsideTable(t *testing.T) {
	idx := &mockIndex{matches: []corpus.Match{{Position: 7, Score: 0.9}}}
	c := labCorpus(t, idx)
	svc := New(&mockEncoder{vec: []float32{1}})

	_, err := svc.Search(context.Background(), c, "q", 1)
	if !errors.Is(err, domain.ErrIndexRowMismatch) {
		t.Fatalf("expected ErrIndexRowMismatch, got %v", err)
	}
}

func TestSearch_EncoderError(t *testing.T) {
	c := slideCorpus(t, &mockIndex{})
	svc := New(&mockEncoder{err: domain.ErrEmbeddingProviderError})

	_, err := svc.Search(context.Background(), c, "q", 1)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestSearch_IndexError(t *testing.T) {
	c := slideCorpus(t, &mockIndex{err: domain.ErrVectorDimMismatch})
	svc := New(&mockEncoder{vec: []float32{1}})

	_, err := svc.Search(context.Background(), c, "q", 1)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := &mockIndex{}
	c, err := corpus.New(chunk.Lab, idx, nil)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	svc := New(&mockEncoder{vec: []float32{1}})

	res, err := svc.Search(context.Background(), c, "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("expected no results, got %d", len(res))
	}
}
