package rent

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/domain"
	domrent "github.com/kailas-cloud/studyplan/internal/domain/rent"
	"github.com/kailas-cloud/studyplan/internal/metrics"
)

// Currency of every estimate.
const Currency = "USD"

// Estimate is a predicted monthly rent.
type Estimate struct {
	MonthlyRent float64
	Currency    string
}

// Options lists the accepted form inputs.
type Options struct {
	States        []string
	Amenities     []string
	MinRooms      int
	MaxRooms      int
	MinSquareFeet int
	MaxSquareFeet int
}

// Service predicts apartment rent from a loaded regression model.
type Service struct {
	model  *domrent.Model
	logger *zap.Logger
}

// New creates a rent service. model can be nil when no model file is configured.
func New(model *domrent.Model, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{model: model, logger: logger}
}

// Available reports whether a model is loaded.
func (s *Service) Available() bool { return s.model != nil }

// Estimate predicts the monthly rent, rounded to cents.
func (s *Service) Estimate(_ context.Context, f domrent.Features) (Estimate, error) {
	if s.model == nil {
		return Estimate{}, domain.ErrRentModelUnavailable
	}

	v := s.model.Predict(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Estimate{}, fmt.Errorf("rent model produced %v", v)
	}
	metrics.RentEstimatesTotal.Inc()

	s.logger.Debug("Rent estimated",
		zap.String("state", f.State()),
		zap.Float64("monthly_rent", v),
	)

	return Estimate{MonthlyRent: math.Round(v*100) / 100, Currency: Currency}, nil
}

// Options returns the inputs the estimator accepts.
func (s *Service) Options() Options {
	states := make([]string, len(domrent.States))
	copy(states, domrent.States)
	amenities := make([]string, len(domrent.Amenities))
	copy(amenities, domrent.Amenities)

	return Options{
		States:        states,
		Amenities:     amenities,
		MinRooms:      domrent.MinRooms,
		MaxRooms:      domrent.MaxRooms,
		MinSquareFeet: domrent.MinSquareFeet,
		MaxSquareFeet: domrent.MaxSquareFeet,
	}
}
