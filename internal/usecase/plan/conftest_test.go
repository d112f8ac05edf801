package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
)

// --- Mocks ---

type searchCall struct {
	source chunk.Source
	query  string
	topK   int
}

type mockSearcher struct {
	results map[chunk.Source][]result.Result
	errs    map[chunk.Source]error
	calls   []searchCall
}

func (m *mockSearcher) Search(
	_ context.Context, c *corpus.Corpus, query string, topK int,
) ([]result.Result, error) {
	m.calls = append(m.calls, searchCall{source: c.Source(), query: query, topK: topK})
	if err := m.errs[c.Source()]; err != nil {
		return nil, err
	}
	return m.results[c.Source()], nil
}

type mockChat struct {
	res   domain.ChatResult
	err   error
	calls []domain.ChatRequest
}

func (m *mockChat) Complete(_ context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	m.calls = append(m.calls, req)
	return m.res, m.err
}

// mockIndex returns fixed matches, one per row by default.
type mockIndex struct {
	matches []corpus.Match
	size    int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]corpus.Match, error) {
	if len(m.matches) > k {
		return m.matches[:k], nil
	}
	return m.matches, nil
}

func (m *mockIndex) Len() int { return m.size }

type mockEncoder struct {
	err error
}

func (m *mockEncoder) EncodeOne(_ context.Context, _ string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []float32{1, 0}, nil
}

var errBoom = errors.New("boom")

func newCorpus(t *testing.T, source chunk.Source, rows ...chunk.Chunk) *corpus.Corpus {
	t.Helper()
	matches := make([]corpus.Match, len(rows))
	for i := range rows {
		matches[i] = corpus.Match{Position: i, Score: 1 - float32(i)/10}
	}
	c, err := corpus.New(source, &mockIndex{matches: matches, size: len(rows)}, rows)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	return c
}
