// Package rent turns apartment features into the named feature vector
// the rent regression model was trained on.
package rent

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

// Input bounds accepted by the estimator form.
const (
	MinRooms      = 1
	MaxRooms      = 5
	MinSquareFeet = 100
	MaxSquareFeet = 2000
)

// Base feature names.
const (
	FeatureBathrooms  = "bathrooms"
	FeatureBedrooms   = "bedrooms"
	FeatureSquareFeet = "square_feet"
	statePrefix       = "state_"
)

// States are the one-hot encoded state codes, in model column order.
var States = []string{
	"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DC", "DE", "FL", "GA", "HI", "IA", "ID", "IL", "IN", "KS",
	"KY", "LA", "MA", "MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND", "NE", "NH", "NJ", "NM", "NV",
	"NY", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VA", "VT", "WA", "WI", "WV", "WY",
}

// Amenities are the binary amenity columns, in model column order.
var Amenities = []string{
	"Cats", "Dogs", "None Allowed", "AC", "Alarm", "Basketball", "Cable or Satellite", "Clubhouse",
	"Dishwasher", "Doorman", "Elevator", "Fireplace", "Garbage Disposal", "Gated", "Golf", "Gym",
	"Hot Tub", "Internet Access", "Luxury", "Not Listed", "Parking", "Patio/Deck", "Playground",
	"Pool", "Refrigerator", "Storage", "TV", "Tennis", "View", "Washer Dryer", "Wood Floors",
}

var (
	knownStates    = toSet(States)
	knownAmenities = toSet(Amenities)
)

// Features is a validated apartment description.
type Features struct {
	bathrooms  float64
	bedrooms   float64
	squareFeet int
	state      string
	amenities  map[string]struct{}
}

// NewFeatures validates the form input.
// Rooms must be whole numbers in [1, 5], size in [100, 2000] sq ft.
func NewFeatures(bathrooms, bedrooms float64, squareFeet int, state string, amenities []string) (Features, error) {
	if err := checkRooms("bathrooms", bathrooms); err != nil {
		return Features{}, err
	}
	if err := checkRooms("bedrooms", bedrooms); err != nil {
		return Features{}, err
	}
	if squareFeet < MinSquareFeet || squareFeet > MaxSquareFeet {
		return Features{}, fmt.Errorf("%w: square_feet must be between %d and %d, got %d",
			domain.ErrInvalidFeatures, MinSquareFeet, MaxSquareFeet, squareFeet)
	}
	if _, ok := knownStates[state]; !ok {
		return Features{}, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidFeatures, state)
	}

	set := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		if _, ok := knownAmenities[a]; !ok {
			return Features{}, fmt.Errorf("%w: unknown amenity %q", domain.ErrInvalidFeatures, a)
		}
		set[a] = struct{}{}
	}

	return Features{
		bathrooms:  bathrooms,
		bedrooms:   bedrooms,
		squareFeet: squareFeet,
		state:      state,
		amenities:  set,
	}, nil
}

// State returns the state code.
func (f Features) State() string { return f.state }

// Amenities returns the selected amenities, sorted.
func (f Features) Amenities() []string {
	out := make([]string, 0, len(f.amenities))
	for a := range f.amenities {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Vector expands the features into every model column: numeric inputs,
// one state_XX column set to 1 and one 0/1 column per amenity.
func (f Features) Vector() map[string]float64 {
	v := make(map[string]float64, len(FeatureNames()))
	v[FeatureBathrooms] = f.bathrooms
	v[FeatureBedrooms] = f.bedrooms
	v[FeatureSquareFeet] = float64(f.squareFeet)
	for _, s := range States {
		v[statePrefix+s] = 0
	}
	v[statePrefix+f.state] = 1
	for _, a := range Amenities {
		if _, ok := f.amenities[a]; ok {
			v[a] = 1
		} else {
			v[a] = 0
		}
	}
	return v
}

// FeatureNames lists every model column in training order.
func FeatureNames() []string {
	names := make([]string, 0, 3+len(States)+len(Amenities))
	names = append(names, FeatureBathrooms, FeatureBedrooms, FeatureSquareFeet)
	for _, s := range States {
		names = append(names, statePrefix+s)
	}
	names = append(names, Amenities...)
	return names
}

// IsFeature reports whether name is a known model column.
func IsFeature(name string) bool {
	for _, n := range FeatureNames() {
		if n == name {
			return true
		}
	}
	return false
}

func checkRooms(name string, v float64) error {
	if v < MinRooms || v > MaxRooms || v != math.Trunc(v) {
		return fmt.Errorf("%w: %s must be a whole number between %d and %d, got %v",
			domain.ErrInvalidFeatures, name, MinRooms, MaxRooms, v)
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}
