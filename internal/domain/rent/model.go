package rent

import "fmt"

// Model is a linear regression over named feature columns.
type Model struct {
	intercept    float64
	coefficients map[string]float64
}

// NewModel validates that every coefficient names a known column.
// Columns without a coefficient weigh zero.
func NewModel(intercept float64, coefficients map[string]float64) (Model, error) {
	for name := range coefficients {
		if !IsFeature(name) {
			return Model{}, fmt.Errorf("unknown feature %q in model", name)
		}
	}
	c := make(map[string]float64, len(coefficients))
	for k, v := range coefficients {
		c[k] = v
	}
	return Model{intercept: intercept, coefficients: c}, nil
}

// Predict returns the estimated monthly rent. Terms are summed in
// FeatureNames order so repeated calls agree bit for bit.
func (m Model) Predict(f Features) float64 {
	y := m.intercept
	v := f.Vector()
	for _, name := range FeatureNames() {
		y += m.coefficients[name] * v[name]
	}
	return y
}
