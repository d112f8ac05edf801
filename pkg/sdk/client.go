package studyplan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chiTransport "github.com/kailas-cloud/studyplan/internal/transport/chi"
)

// Client talks to a studyplan server. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	obs     *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("studyplan: invalid base URL %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		http:    hc,
		obs:     obs,
	}, nil
}

// Plan generates a study plan for the given feedback.
func (c *Client) Plan(ctx context.Context, req PlanRequest) (_ Plan, err error) {
	defer func(start time.Time) { c.obs.observe("plan", start, err) }(time.Now())

	body := chiTransport.PlanRequest{Feedback: req.Feedback}
	if req.TopKSlides != 0 {
		body.TopKSlides = &req.TopKSlides
	}
	if req.TopKLabs != 0 {
		body.TopKLabs = &req.TopKLabs
	}
	if req.Model != "" {
		body.Model = &req.Model
	}

	var resp chiTransport.PlanResponse
	h, err := c.do(ctx, http.MethodPost, "/v1/plans", body, &resp)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Text: resp.Plan,
		Usage: Usage{
			EmbeddingTokens:  headerInt(h, "X-Embedding-Tokens"),
			CompletionTokens: headerInt(h, "X-Completion-Tokens"),
		},
		RequestID: h.Get("X-Request-ID"),
	}, nil
}

// Search returns up to topK chunks from one corpus, best first.
// A zero topK uses the server default.
func (c *Client) Search(ctx context.Context, source Source, query string, topK int) (_ []Hit, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	body := chiTransport.SearchRequest{Query: query, Source: string(source)}
	if topK != 0 {
		body.TopK = &topK
	}

	var resp chiTransport.SearchResultListResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/search", body, &resp); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp.Items))
	for _, it := range resp.Items {
		h := Hit{
			Source: Source(it.Source),
			File:   it.File,
			Text:   it.Text,
			Score:  it.Score,
		}
		if it.Page != nil {
			h.Page = *it.Page
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// EstimateRent predicts the monthly rent for an apartment.
func (c *Client) EstimateRent(ctx context.Context, a Apartment) (_ RentEstimate, err error) {
	defer func(start time.Time) { c.obs.observe("estimate_rent", start, err) }(time.Now())

	amenities := a.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	body := chiTransport.RentEstimateRequest{
		Bathrooms:  a.Bathrooms,
		Bedrooms:   a.Bedrooms,
		SquareFeet: a.SquareFeet,
		State:      a.State,
		Amenities:  amenities,
	}

	var resp chiTransport.RentEstimateResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/rent/estimate", body, &resp); err != nil {
		return RentEstimate{}, err
	}
	return RentEstimate{MonthlyRent: resp.MonthlyRent, Currency: resp.Currency}, nil
}

// RentOptions lists the states, amenities and ranges the estimator accepts.
func (c *Client) RentOptions(ctx context.Context) (_ RentOptions, err error) {
	defer func(start time.Time) { c.obs.observe("rent_options", start, err) }(time.Now())

	var resp chiTransport.RentOptionsResponse
	if _, err := c.do(ctx, http.MethodGet, "/v1/rent/options", nil, &resp); err != nil {
		return RentOptions{}, err
	}
	return RentOptions{
		States:     resp.States,
		Amenities:  resp.Amenities,
		Bathrooms:  Range{Min: resp.Bathrooms.Min, Max: resp.Bathrooms.Max},
		Bedrooms:   Range{Min: resp.Bedrooms.Min, Max: resp.Bedrooms.Max},
		SquareFeet: Range{Min: resp.SquareFeet.Min, Max: resp.SquareFeet.Max},
	}, nil
}

// Health reports server health. A degraded server is not an error.
func (c *Client) Health(ctx context.Context) (_ HealthReport, err error) {
	defer func(start time.Time) { c.obs.observe("health", start, err) }(time.Now())

	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthReport{}, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("studyplan: health: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusServiceUnavailable {
		return HealthReport{}, decodeError(res)
	}

	var resp chiTransport.HealthResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return HealthReport{}, fmt.Errorf("studyplan: decode health: %w", err)
	}
	return HealthReport{
		Healthy: res.StatusCode == http.StatusOK,
		Status:  resp.Status,
		Checks:  resp.Checks,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("studyplan: encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("studyplan: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// do sends the request and decodes a 2xx body into out. Response headers are
// returned for usage accounting.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("studyplan: %s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, decodeError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("studyplan: decode %s response: %w", path, err)
	}
	return res.Header, nil
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	var body chiTransport.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Code = string(body.Code)
		apiErr.Message = body.Message
	} else {
		apiErr.Message = http.StatusText(res.StatusCode)
	}
	return apiErr
}

func headerInt(h http.Header, key string) int {
	n, _ := strconv.Atoi(h.Get(key))
	return n
}
