package plan

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	domplan "github.com/kailas-cloud/studyplan/internal/domain/plan"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/studyplan/internal/logger"
	"github.com/kailas-cloud/studyplan/internal/metrics"
)

// Default retrieval depth per corpus.
const (
	DefaultTopKSlides = 5
	DefaultTopKLabs   = 5
)

// Request describes one plan generation. Zero values fall back to defaults.
type Request struct {
	Feedback   string
	TopKSlides int
	TopKLabs   int
	Model      string
}

// Retrieval holds everything gathered before the chat call.
type Retrieval struct {
	Slides  []result.Result
	Labs    []result.Result
	Context string
	Prompt  domplan.Prompt
}

// Service turns student feedback into a cited 7-day study plan.
type Service struct {
	searcher   Searcher
	chat       ChatCompleter
	slides     *corpus.Corpus
	labs       *corpus.Corpus
	model      string
	topKSlides int
	topKLabs   int
	logger     *zap.Logger
}

// New creates a plan service over the slide and lab corpora.
func New(
	searcher Searcher,
	chat ChatCompleter,
	slides, labs *corpus.Corpus,
	model string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		searcher:   searcher,
		chat:       chat,
		slides:     slides,
		labs:       labs,
		model:      model,
		topKSlides: DefaultTopKSlides,
		topKLabs:   DefaultTopKLabs,
		logger:     logger,
	}
}

// WithTopK overrides the default retrieval depth. Non-positive values are ignored.
func (s *Service) WithTopK(slides, labs int) *Service {
	if slides > 0 {
		s.topKSlides = slides
	}
	if labs > 0 {
		s.topKLabs = labs
	}
	return s
}

// Generate retrieves course context for the feedback and asks the chat
// model for a plan. The model's answer is returned as is.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	r, err := s.Retrieve(ctx, req)
	if err != nil {
		return "", err
	}
	return s.Complete(ctx, r, req.Model)
}

// Complete sends a prepared prompt to the chat model. An empty model uses
// the configured default.
func (s *Service) Complete(ctx context.Context, r Retrieval, model string) (string, error) {
	if model == "" {
		model = s.model
	}

	res, err := s.chat.Complete(ctx, domain.ChatRequest{
		Model: model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: r.Prompt.System},
			{Role: domain.RoleUser, Content: r.Prompt.User},
		},
		Temperature: domplan.Temperature,
		MaxTokens:   domplan.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate plan: %w", err)
	}

	domain.UsageFromContext(ctx).AddCompletionTokens(res.CompletionTokens)

	logpkg.Or(ctx, s.logger).Debug("Plan generated",
		zap.String("model", model),
		zap.Int("slides", len(r.Slides)),
		zap.Int("labs", len(r.Labs)),
		zap.Int("completion_tokens", res.CompletionTokens),
	)

	return res.Content, nil
}

// Retrieve runs both searches and builds the prompt without calling the
// chat model.
func (s *Service) Retrieve(ctx context.Context, req Request) (Retrieval, error) {
	if strings.TrimSpace(req.Feedback) == "" {
		return Retrieval{}, fmt.Errorf("%w: feedback is required", domain.ErrInvalidRequest)
	}

	topSlides, err := s.resolveTopK(req.TopKSlides, s.topKSlides)
	if err != nil {
		return Retrieval{}, err
	}
	topLabs, err := s.resolveTopK(req.TopKLabs, s.topKLabs)
	if err != nil {
		return Retrieval{}, err
	}

	slides, err := s.searcher.Search(ctx, s.slides, req.Feedback, topSlides)
	if err != nil {
		return Retrieval{}, fmt.Errorf("search slides: %w", err)
	}
	labs, err := s.searcher.Search(ctx, s.labs, req.Feedback, topLabs)
	if err != nil {
		return Retrieval{}, fmt.Errorf("search labs: %w", err)
	}

	contextBlock := domplan.AssembleContext(labs, slides)
	if contextBlock == "" {
		metrics.PlanEmptyContextTotal.Inc()
		logpkg.Or(ctx, s.logger).Warn("No course context found for feedback, prompting with empty context")
	}

	return Retrieval{
		Slides:  slides,
		Labs:    labs,
		Context: contextBlock,
		Prompt:  domplan.BuildPrompt(req.Feedback, contextBlock),
	}, nil
}

// resolveTopK uses def for an unset value and rejects negatives.
func (s *Service) resolveTopK(v, def int) (int, error) {
	switch {
	case v == 0:
		return def, nil
	case v < 0:
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, v)
	default:
		return v, nil
	}
}
