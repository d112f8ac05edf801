package rent

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/studyplan/internal/domain"
)

func TestNewFeatures_Validation(t *testing.T) {
	tests := []struct {
		name      string
		bath, bed float64
		sqft      int
		state     string
		amenities []string
		wantErr   bool
	}{
		{"minimal", 1, 1, 800, "CA", nil, false},
		{"upper bounds", 5, 5, 2000, "WY", []string{"Pool", "Gym"}, false},
		{"fractional bathrooms", 1.5, 1, 800, "CA", nil, true},
		{"too many bedrooms", 1, 6, 800, "CA", nil, true},
		{"zero bathrooms", 0, 1, 800, "CA", nil, true},
		{"too small", 1, 1, 99, "CA", nil, true},
		{"too large", 1, 1, 2001, "CA", nil, true},
		{"unknown state", 1, 1, 800, "XX", nil, true},
		{"lowercase state", 1, 1, 800, "ca", nil, true},
		{"unknown amenity", 1, 1, 800, "CA", []string{"Sauna"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFeatures(tc.bath, tc.bed, tc.sqft, tc.state, tc.amenities)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidFeatures) {
				t.Errorf("expected ErrInvalidFeatures, got %v", err)
			}
		})
	}
}

func TestVector_OneHotState(t *testing.T) {
	f, err := NewFeatures(2, 3, 950, "NY", []string{"Dishwasher"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := f.Vector()
	if len(v) != len(FeatureNames()) {
		t.Fatalf("expected %d columns, got %d", len(FeatureNames()), len(v))
	}

	var hot int
	for _, s := range States {
		switch v["state_"+s] {
		case 1:
			hot++
			if s != "NY" {
				t.Errorf("state_%s should be 0", s)
			}
		case 0:
		default:
			t.Errorf("state_%s = %f, want 0 or 1", s, v["state_"+s])
		}
	}
	if hot != 1 {
		t.Errorf("expected exactly one hot state, got %d", hot)
	}
	if v["bathrooms"] != 2 || v["bedrooms"] != 3 || v["square_feet"] != 950 {
		t.Errorf("unexpected numeric columns: %v %v %v", v["bathrooms"], v["bedrooms"], v["square_feet"])
	}
	if v["Dishwasher"] != 1 || v["Pool"] != 0 {
		t.Errorf("unexpected amenity columns: Dishwasher=%v Pool=%v", v["Dishwasher"], v["Pool"])
	}
}

func TestFeatureNames_Count(t *testing.T) {
	if got, want := len(FeatureNames()), 3+51+31; got != want {
		t.Errorf("expected %d feature names, got %d", want, got)
	}
}

func TestModel_Predict(t *testing.T) {
	m, err := NewModel(500, map[string]float64{
		"square_feet": 1.5,
		"bedrooms":    100,
		"state_CA":    400,
		"Pool":        50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ca, _ := NewFeatures(1, 2, 800, "CA", []string{"Pool"})
	tx, _ := NewFeatures(1, 2, 800, "TX", nil)

	// 500 + 1.5*800 + 100*2 + 400 + 50
	if got := m.Predict(ca); math.Abs(got-2350) > 1e-9 {
		t.Errorf("CA prediction = %f, want 2350", got)
	}
	// 500 + 1.5*800 + 100*2
	if got := m.Predict(tx); math.Abs(got-1900) > 1e-9 {
		t.Errorf("TX prediction = %f, want 1900", got)
	}
}

func TestModel_PredictSumsInColumnOrder(t *testing.T) {
	// Large terms cancel, so any other summation order loses the small ones.
	m, err := NewModel(0, map[string]float64{
		"bathrooms": 1e16,
		"state_CA":  -1e16,
		"Pool":      1,
		"Gym":       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := NewFeatures(1, 1, 800, "CA", []string{"Pool", "Gym"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 50 {
		if got := m.Predict(f); got != 2 {
			t.Fatalf("Predict = %v, want exactly 2", got)
		}
	}
}

func TestNewModel_UnknownFeature(t *testing.T) {
	if _, err := NewModel(0, map[string]float64{"state_ZZ": 1}); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}
