package studyplan

// Source names one of the two corpora.
type Source string

// Corpora served by the API.
const (
	SourceSlide Source = "slide"
	SourceLab   Source = "lab"
)

// PlanRequest asks for a 7-day study plan. Zero top-k values and an empty
// model use the server defaults.
type PlanRequest struct {
	Feedback   string
	TopKSlides int
	TopKLabs   int
	Model      string
}

// Usage reports provider tokens spent on a request, as returned in response headers.
type Usage struct {
	EmbeddingTokens  int
	CompletionTokens int
}

// Plan is a generated study plan.
type Plan struct {
	Text      string
	Usage     Usage
	RequestID string
}

// Hit is one ranked chunk. Page is zero for lab chunks.
type Hit struct {
	Source Source
	File   string
	Page   int
	Text   string
	Score  float32
}

// Apartment describes the listing to price.
type Apartment struct {
	Bathrooms  float64
	Bedrooms   float64
	SquareFeet int
	State      string
	Amenities  []string
}

// RentEstimate is a predicted monthly rent.
type RentEstimate struct {
	MonthlyRent float64
	Currency    string
}

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max int
}

// RentOptions lists the inputs the estimator accepts.
type RentOptions struct {
	States     []string
	Amenities  []string
	Bathrooms  Range
	Bedrooms   Range
	SquareFeet Range
}

// HealthReport is the server health status. Healthy is false when any
// component check failed.
type HealthReport struct {
	Healthy bool
	Status  string
	Checks  map[string]string
}
