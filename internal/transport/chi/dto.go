package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeUnknownSource          ErrorCode = "unknown_source"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeChatProviderError      ErrorCode = "chat_provider_error"
	CodeRentModelUnavailable   ErrorCode = "rent_model_unavailable"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PlanRequest is the body of POST /v1/plans.
type PlanRequest struct {
	Feedback   string  `json:"feedback"`
	TopKSlides *int    `json:"top_k_slides,omitempty"`
	TopKLabs   *int    `json:"top_k_labs,omitempty"`
	Model      *string `json:"model,omitempty"`
}

// PlanResponse carries the generated plan text.
type PlanResponse struct {
	Plan string `json:"plan"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query  string `json:"query"`
	Source string `json:"source"`
	TopK   *int   `json:"top_k,omitempty"`
}

// SearchResultItem is one ranked chunk.
type SearchResultItem struct {
	Source string  `json:"source"`
	File   string  `json:"file"`
	Page   *int    `json:"page,omitempty"`
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
}

// SearchResultListResponse wraps search hits.
type SearchResultListResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// RentEstimateRequest is the body of POST /v1/rent/estimate.
type RentEstimateRequest struct {
	Bathrooms  float64  `json:"bathrooms"`
	Bedrooms   float64  `json:"bedrooms"`
	SquareFeet int      `json:"square_feet"`
	State      string   `json:"state"`
	Amenities  []string `json:"amenities"`
}

// RentEstimateResponse is a predicted monthly rent.
type RentEstimateResponse struct {
	MonthlyRent float64 `json:"monthly_rent"`
	Currency    string  `json:"currency"`
}

// RangeResponse is an inclusive numeric bound.
type RangeResponse struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RentOptionsResponse lists the accepted estimator inputs.
type RentOptionsResponse struct {
	States     []string      `json:"states"`
	Amenities  []string      `json:"amenities"`
	Bathrooms  RangeResponse `json:"bathrooms"`
	Bedrooms   RangeResponse `json:"bedrooms"`
	SquareFeet RangeResponse `json:"square_feet"`
}

// HealthResponse aggregates component checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
