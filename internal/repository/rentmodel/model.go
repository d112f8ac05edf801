// Package rentmodel loads the rent regression model from a YAML file.
//
//	intercept: 812.4
//	coefficients:
//	  square_feet: 0.93
//	  bedrooms: 120.5
//	  state_CA: 910.2
//	  Pool: 35.0
package rentmodel

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/studyplan/internal/domain/rent"
)

type fileModel struct {
	Intercept    *float64           `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

// Load reads and validates a model file.
func Load(path string) (rent.Model, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return rent.Model{}, fmt.Errorf("read rent model %s: %w", path, err)
	}

	var fm fileModel
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return rent.Model{}, fmt.Errorf("parse rent model %s: %w", path, err)
	}
	if fm.Intercept == nil {
		return rent.Model{}, fmt.Errorf("rent model %s: intercept is required", path)
	}
	if len(fm.Coefficients) == 0 {
		return rent.Model{}, fmt.Errorf("rent model %s: coefficients are required", path)
	}

	m, err := rent.NewModel(*fm.Intercept, fm.Coefficients)
	if err != nil {
		return rent.Model{}, fmt.Errorf("rent model %s: %w", path, err)
	}
	return m, nil
}
