package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	domrent "github.com/kailas-cloud/studyplan/internal/domain/rent"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
	"github.com/kailas-cloud/studyplan/internal/metrics"
	healthuc "github.com/kailas-cloud/studyplan/internal/usecase/health"
	planuc "github.com/kailas-cloud/studyplan/internal/usecase/plan"
	rentuc "github.com/kailas-cloud/studyplan/internal/usecase/rent"
)

// defaultSearchTopK applies when a search request omits top_k.
const defaultSearchTopK = 5

// PlanGenerator produces a study plan from feedback.
type PlanGenerator interface {
	Generate(ctx context.Context, req planuc.Request) (string, error)
}

// Searcher ranks corpus chunks against a query.
type Searcher interface {
	Search(ctx context.Context, c *corpus.Corpus, query string, topK int) ([]result.Result, error)
}

// RentEstimator predicts monthly rent.
type RentEstimator interface {
	Estimate(ctx context.Context, f domrent.Features) (rentuc.Estimate, error)
	Options() rentuc.Options
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the study plan, search and rent endpoints.
type Server struct {
	plans         PlanGenerator
	search        Searcher
	corpora       map[chunk.Source]*corpus.Corpus
	rent          RentEstimator
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	plans PlanGenerator,
	search Searcher,
	corpora []*corpus.Corpus,
	rent RentEstimator,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		plans:   plans,
		search:  search,
		corpora: make(map[chunk.Source]*corpus.Corpus, len(corpora)),
		rent:    rent,
		health:  health,
		logger:  logger,
	}
	for _, c := range corpora {
		s.corpora[c.Source()] = c
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidTopK, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidFeatures, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownSource, http.StatusNotFound, CodeUnknownSource),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, CodeChatProviderError),
		sentinelHandler(domain.ErrRentModelUnavailable, http.StatusServiceUnavailable, CodeRentModelUnavailable),
	}
	return s
}

// CreatePlan handles POST /v1/plans.
func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topSlides, err := topKFromRequest("top_k_slides", req.TopKSlides)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	topLabs, err := topKFromRequest("top_k_labs", req.TopKLabs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	plan, err := s.plans.Generate(ctx, planuc.Request{
		Feedback:   req.Feedback,
		TopKSlides: topSlides,
		TopKLabs:   topLabs,
		Model:      derefString(req.Model),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, PlanResponse{Plan: plan})
}

// SearchChunks handles POST /v1/search.
func (s *Server) SearchChunks(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}

	topK := defaultSearchTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	c, err := s.corpusFor(req.Source)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.Search(ctx, c, req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(&results[i])
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResultListResponse{Items: items, Total: len(items)})
}

// EstimateRent handles POST /v1/rent/estimate.
func (s *Server) EstimateRent(w http.ResponseWriter, r *http.Request) {
	var req RentEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	f, err := domrent.NewFeatures(req.Bathrooms, req.Bedrooms, req.SquareFeet, req.State, req.Amenities)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	est, err := s.rent.Estimate(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RentEstimateResponse{MonthlyRent: est.MonthlyRent, Currency: est.Currency})
}

// RentOptions handles GET /v1/rent/options.
func (s *Server) RentOptions(w http.ResponseWriter, _ *http.Request) {
	opts := s.rent.Options()
	rooms := RangeResponse{Min: opts.MinRooms, Max: opts.MaxRooms}
	writeJSON(w, http.StatusOK, RentOptionsResponse{
		States:     opts.States,
		Amenities:  opts.Amenities,
		Bathrooms:  rooms,
		Bedrooms:   rooms,
		SquareFeet: RangeResponse{Min: opts.MinSquareFeet, Max: opts.MaxSquareFeet},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) corpusFor(raw string) (*corpus.Corpus, error) {
	source, err := chunk.ParseSource(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnknownSource, err)
	}
	c, ok := s.corpora[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s corpus not loaded", domain.ErrUnknownSource, source)
	}
	return c, nil
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if usage == nil {
		return
	}
	if usage.Embedded {
		w.Header().Set(metrics.EmbeddingTokensHeader, strconv.Itoa(usage.EmbeddingTokens))
	}
	if usage.Completed {
		w.Header().Set(metrics.CompletionTokensHeader, strconv.Itoa(usage.CompletionTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// clientErrors are caused by the request itself; their full message is safe to return.
var clientErrors = []error{
	domain.ErrInvalidRequest,
	domain.ErrInvalidTopK,
	domain.ErrInvalidFeatures,
	domain.ErrUnknownSource,
}

// safeDomainMessage returns a message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range clientErrors {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	upstream := []error{
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrRentModelUnavailable,
	}
	for _, s := range upstream {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	item := SearchResultItem{
		Source: string(r.Source()),
		File:   r.File(),
		Text:   r.Text(),
		Score:  r.Score(),
	}
	if page, ok := r.Page(); ok {
		item.Page = &page
	}
	return item
}

// topKFromRequest returns 0 (service default) for an omitted field.
// An explicit value must be positive.
func topKFromRequest(name string, p *int) (int, error) {
	if p == nil {
		return 0, nil
	}
	if *p < 1 {
		return 0, fmt.Errorf("%w: %s got %d", domain.ErrInvalidTopK, name, *p)
	}
	return *p, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
