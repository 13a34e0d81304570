package models

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-9

// CategoryWeights configures the three-way split used by the aggregator.
// Alternate weighting schemes are swapped via configuration, not code.
type CategoryWeights struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Valuation   float64 `yaml:"valuation" json:"valuation"`
}

func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		Technical:   0.35,
		Fundamental: 0.35,
		Valuation:   0.30,
	}
}

func (w CategoryWeights) Validate() error {
	if w.Technical < 0 || w.Fundamental < 0 || w.Valuation < 0 {
		return fmt.Errorf("CategoryWeights.Validate: %+v: %w", w, NegativeWeightErr)
	}

	sum := w.Technical + w.Fundamental + w.Valuation
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("CategoryWeights.Validate: sum is %v: %w", sum, WeightSumErr)
	}

	return nil
}

type WeightsConfigYAML struct {
	Weights CategoryWeights `yaml:"weights"`
}
