package engine

import (
	"fmt"
	"math"

	"stock-advisor/src/models"
)

// Decision thresholds on the weighted composite score. Fixed for behavioral
// compatibility with the documented methodology.
const (
	buyThreshold  = 0.15
	sellThreshold = -0.15
)

// Aggregate fuses the three category scores into one verdict using the
// weighted composite score. Categories with unrecognized or missing labels
// contribute zero; that is a valid degenerate input, not an error.
func Aggregate(technical, fundamental, valuation models.CategoryScore, weights models.CategoryWeights) (*models.Verdict, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("Aggregate: %w", err)
	}

	for _, category := range []models.CategoryScore{technical, fundamental, valuation} {
		if err := category.Validate(); err != nil {
			return nil, fmt.Errorf("Aggregate: %w", err)
		}
	}

	composite := technical.Score*weights.Technical +
		fundamental.Score*weights.Fundamental +
		valuation.Score*weights.Valuation

	var label models.VerdictLabel
	switch {
	case composite > buyThreshold:
		label = models.VerdictBuy
	case composite < sellThreshold:
		label = models.VerdictSell
	default:
		label = models.VerdictHold
	}

	return &models.Verdict{
		Label:          label,
		CompositeScore: composite,
		ConfidencePct:  confidencePct(composite),
		Breakdown: map[models.CategoryType]models.CategoryScore{
			models.CategoryTechnical:   technical,
			models.CategoryFundamental: fundamental,
			models.CategoryValuation:   valuation,
		},
	}, nil
}

// confidencePct maps |composite| linearly onto 0-100. The mapping is strictly
// increasing in the magnitude and reaches 100 only when every weighted
// category agrees fully.
func confidencePct(composite float64) int {
	magnitude := math.Min(math.Abs(composite), 1.0)
	return int(math.Round(magnitude * 100))
}

// RollUpIndicators reduces per-indicator labels to the single technical
// category: the majority label wins with ties broken toward hold, and the
// numeric score is the mean of the per-label mappings.
func RollUpIndicators(labels []models.SignalLabel) models.CategoryScore {
	if len(labels) == 0 {
		return models.NewCategoryScore(models.CategoryTechnical, models.SignalLabelHold)
	}

	votes := CountVotes(labels)

	sum := 0.0
	for _, label := range labels {
		sum += label.Score()
	}

	overall := models.SignalLabelHold
	if votes.Buy > votes.Sell && votes.Buy > votes.Hold {
		overall = models.SignalLabelBuy
	} else if votes.Sell > votes.Buy && votes.Sell > votes.Hold {
		overall = models.SignalLabelSell
	}

	return models.CategoryScore{
		Category: models.CategoryTechnical,
		Signal:   overall,
		Score:    sum / float64(len(labels)),
	}
}

// CountVotes buckets labels by their mapped direction, so bullish counts as a
// buy vote and bearish as a sell vote.
func CountVotes(labels []models.SignalLabel) models.VoteSummary {
	var votes models.VoteSummary
	for _, label := range labels {
		switch {
		case label.Score() > 0:
			votes.Buy++
		case label.Score() < 0:
			votes.Sell++
		default:
			votes.Hold++
		}
	}

	return votes
}
