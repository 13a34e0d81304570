package models

import "fmt"

// CategoryType names one of the three independent analysis axes.
type CategoryType string

const (
	CategoryTechnical   CategoryType = "technical"
	CategoryFundamental CategoryType = "fundamental"
	CategoryValuation   CategoryType = "valuation"
)

// CategoryScore is one analysis category reduced to a label plus a numeric
// score in [-1, 1]. The technical score is usually the mean across indicators
// and can differ from the plain label mapping.
type CategoryScore struct {
	Category CategoryType
	Signal   SignalLabel
	Score    float64
}

func NewCategoryScore(category CategoryType, signal SignalLabel) CategoryScore {
	return CategoryScore{
		Category: category,
		Signal:   signal,
		Score:    signal.Score(),
	}
}

func (c CategoryScore) Validate() error {
	if c.Score < -1 || c.Score > 1 {
		return fmt.Errorf("CategoryScore.Validate: %v scored %v: %w", c.Category, c.Score, ScoreOutOfRangeErr)
	}

	return nil
}

// SectionResult is one fundamental analysis section (profitability, growth,
// health, valuation ratios, dividends), pre-scored by the fundamentals
// collaborator.
type SectionResult struct {
	Signal  SignalLabel       `json:"signal"`
	Details map[string]string `json:"details,omitempty"`
}

// FundamentalResult arrives pre-classified from the fundamentals collaborator.
type FundamentalResult struct {
	Overall  SignalLabel              `json:"overall_signal"`
	Sections map[string]SectionResult `json:"sections,omitempty"`
}

// ValuationMethodResult is one valuation model's output. GapPct is the
// percentage gap between intrinsic value and market price; nil when the
// method could not be computed.
type ValuationMethodResult struct {
	Signal SignalLabel `json:"signal"`
	GapPct *float64    `json:"gap_%,omitempty"`
}

// ValuationResult arrives pre-classified from the valuation collaborator.
type ValuationResult struct {
	Overall        SignalLabel                      `json:"overall_signal"`
	WeightedGapPct float64                          `json:"weighted_gap_%"`
	Methods        map[string]ValuationMethodResult `json:"methods,omitempty"`
}
