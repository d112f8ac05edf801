package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
	"github.com/kailas-cloud/studyplan/internal/logger"
	"github.com/kailas-cloud/studyplan/internal/metrics"
)

// Service runs top-k similarity search over a slide or lab corpus.
type Service struct {
	encoder QueryEncoder
}

// New creates a search service.
func New(encoder QueryEncoder) *Service {
	return &Service{encoder: encoder}
}

// Search encodes query and returns at most topK results ordered by
// descending score. Ties keep index order.
func (s *Service) Search(
	ctx context.Context, c *corpus.Corpus, query string, topK int,
) ([]result.Result, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, topK)
	}

	vec, err := s.encoder.EncodeOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return s.SearchVector(ctx, c, vec, topK)
}

// SearchVector is Search for an already encoded query.
func (s *Service) SearchVector(
	ctx context.Context, c *corpus.Corpus, vec []float32, topK int,
) ([]result.Result, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, topK)
	}

	matches, err := c.Index().Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", c.Source(), err)
	}

	results := make([]result.Result, 0, len(matches))
	dropped := 0
	for _, m := range matches {
		if m.Position == corpus.NoMatch {
			dropped++
			continue
		}
		row, err := c.Row(m.Position)
		if err != nil {
			return nil, err
		}
		results = append(results, result.New(c.Source(), row, m.Score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	if len(results) > topK {
		results = results[:topK]
	}

	source := string(c.Source())
	if dropped > 0 {
		metrics.SearchDroppedTotal.WithLabelValues(source).Add(float64(dropped))
		logger.FromContext(ctx).Debug("Dropped index matches without row position",
			zap.String("source", source),
			zap.Int("dropped", dropped),
		)
	}
	metrics.SearchResultsTotal.WithLabelValues(source).Add(float64(len(results)))

	return results, nil
}
