package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-advisor/src/indicators"
	"stock-advisor/src/models"
)

// stubGenerator emits a fixed present-day label and a fixed signal stream.
type stubGenerator struct {
	name    string
	label   models.SignalLabel
	actions []models.SignalAction
}

func (s *stubGenerator) Name() string {
	return s.name
}

func (s *stubGenerator) Signals(candles models.Candles) ([]models.SignalAction, error) {
	if s.actions != nil {
		return s.actions, nil
	}

	return make([]models.SignalAction, len(candles)), nil
}

func (s *stubGenerator) Current(candles models.Candles) (indicators.Snapshot, error) {
	return indicators.Snapshot{
		Signal: s.label,
		Reason: "stubbed",
		Fields: map[string]float64{"gap_%": 1.5},
	}, nil
}

func newTestCandles(closes ...float64) models.Candles {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	candles := make(models.Candles, len(closes))
	for i, c := range closes {
		candles[i] = models.NewCandle(start.AddDate(0, 0, i), c, c, c, c)
	}

	return candles
}

func TestTechnicalAnalysis(t *testing.T) {
	ctx := context.Background()
	candles := newTestCandles(100, 102, 99, 105, 108)

	generators := []indicators.SignalGenerator{
		&stubGenerator{
			name:  "alpha",
			label: models.SignalLabelBuy,
			actions: []models.SignalAction{
				models.SignalActionNone,
				models.SignalActionEntry,
				models.SignalActionNone,
				models.SignalActionExit,
				models.SignalActionNone,
			},
		},
		&stubGenerator{name: "beta", label: models.SignalLabelBuy},
		&stubGenerator{name: "gamma", label: models.SignalLabelSell},
	}

	result, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, generators)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Ticker)
	assert.Equal(t, 108.0, result.Price)
	assert.Equal(t, "2024-01-05", result.AsOf)
	assert.Equal(t, models.SignalLabelBuy, result.Overall)
	assert.Equal(t, models.VoteSummary{Buy: 2, Sell: 1, Hold: 0}, result.Votes)

	require.Len(t, result.Indicators, 3)
	assert.Equal(t, 1, result.Indicators["alpha"].Backtest.NTrades)
	assert.Equal(t, 0, result.Indicators["beta"].Backtest.NTrades)
}

func TestTechnicalAnalysisDeterminism(t *testing.T) {
	ctx := context.Background()
	candles := newTestCandles(100, 102, 99, 105, 108)
	generators := []indicators.SignalGenerator{
		&stubGenerator{name: "alpha", label: models.SignalLabelBuy},
		&stubGenerator{name: "beta", label: models.SignalLabelHold},
	}

	first, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, generators)
	require.NoError(t, err)

	second, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, generators)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTechnicalAnalysisInsufficientData(t *testing.T) {
	_, err := TechnicalAnalysis(context.Background(), "AAPL", newTestCandles(100), 0.001, nil)
	assert.ErrorIs(t, err, models.InsufficientDataErr)
}

func TestFullAnalysis(t *testing.T) {
	ctx := context.Background()
	candles := newTestCandles(100, 102, 99, 105, 108)
	generators := []indicators.SignalGenerator{
		&stubGenerator{name: "alpha", label: models.SignalLabelBuy},
		&stubGenerator{name: "beta", label: models.SignalLabelBuy},
		&stubGenerator{name: "gamma", label: models.SignalLabelSell},
	}

	technical, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, generators)
	require.NoError(t, err)

	gap := 25.0
	verdict, err := FullAnalysis(ctx, FullAnalysisRequest{
		Ticker:    "AAPL",
		Technical: technical,
		Fundamental: &models.FundamentalResult{
			Overall: models.SignalLabelBullish,
			Sections: map[string]models.SectionResult{
				"growth": {Signal: models.SignalLabelBullish},
			},
		},
		Valuation: &models.ValuationResult{
			Overall:        models.SignalLabelNeutral,
			WeightedGapPct: 4.2,
			Methods: map[string]models.ValuationMethodResult{
				"dcf_value": {Signal: models.SignalLabelNeutral, GapPct: &gap},
			},
		},
		Weights: models.DefaultCategoryWeights(),
	})
	require.NoError(t, err)

	// composite = 0.35*(1/3) + 0.35*1 + 0.30*0
	assert.Equal(t, models.VerdictBuy, verdict.AiVerdict)
	assert.Equal(t, 47, verdict.AiConfidence)
	assert.InDelta(t, 0.467, verdict.WeightedScore, 1e-9)
	assert.Equal(t, "AAPL", verdict.Ticker)
	assert.Equal(t, 108.0, verdict.Price)

	require.Contains(t, verdict.AgentSignals, models.CategoryTechnical)
	assert.Equal(t, models.SignalLabelBuy, verdict.AgentSignals[models.CategoryTechnical].Signal)
	require.NotNil(t, verdict.AgentSignals[models.CategoryTechnical].VoteSummary)
	assert.Equal(t, models.SignalLabelBullish, verdict.AgentSignals[models.CategoryFundamental].Signal)
	require.NotNil(t, verdict.AgentSignals[models.CategoryValuation].GapPct)
	assert.Equal(t, 4.2, *verdict.AgentSignals[models.CategoryValuation].GapPct)

	require.Contains(t, verdict.IndicatorBreakdown, "alpha")
	alpha := verdict.IndicatorBreakdown["alpha"]
	require.NotNil(t, alpha.BacktestWinRatePct)
	require.NotNil(t, alpha.BacktestTrades)
	require.NotNil(t, alpha.GapPct)
	assert.Equal(t, 1.5, *alpha.GapPct)

	require.Contains(t, verdict.IndicatorBreakdown, "Fundamental: Growth")
	require.Contains(t, verdict.IndicatorBreakdown, "Valuation: Dcf Value")
	assert.Equal(t, &gap, verdict.IndicatorBreakdown["Valuation: Dcf Value"].GapPct)
}

func TestFullAnalysisMissingCategoriesDegradeToNeutral(t *testing.T) {
	ctx := context.Background()
	candles := newTestCandles(100, 102, 99, 105, 108)
	generators := []indicators.SignalGenerator{
		&stubGenerator{name: "alpha", label: models.SignalLabelHold},
	}

	technical, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, generators)
	require.NoError(t, err)

	verdict, err := FullAnalysis(ctx, FullAnalysisRequest{
		Ticker:    "AAPL",
		Technical: technical,
		Weights:   models.DefaultCategoryWeights(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.VerdictHold, verdict.AiVerdict)
	assert.Equal(t, 0, verdict.AiConfidence)
	assert.Equal(t, models.SignalLabelNeutral, verdict.AgentSignals[models.CategoryFundamental].Signal)
	assert.Equal(t, models.SignalLabelNeutral, verdict.AgentSignals[models.CategoryValuation].Signal)
	assert.Nil(t, verdict.AgentSignals[models.CategoryValuation].GapPct)
}

func TestFullAnalysisValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing technical analysis", func(t *testing.T) {
		_, err := FullAnalysis(ctx, FullAnalysisRequest{Ticker: "AAPL", Weights: models.DefaultCategoryWeights()})
		assert.ErrorIs(t, err, models.InsufficientDataErr)
	})

	t.Run("invalid weights", func(t *testing.T) {
		candles := newTestCandles(100, 102, 99)
		technical, err := TechnicalAnalysis(ctx, "AAPL", candles, 0.001, []indicators.SignalGenerator{
			&stubGenerator{name: "alpha", label: models.SignalLabelHold},
		})
		require.NoError(t, err)

		_, err = FullAnalysis(ctx, FullAnalysisRequest{
			Ticker:    "AAPL",
			Technical: technical,
			Weights:   models.CategoryWeights{Technical: 0.5, Fundamental: 0.5, Valuation: 0.5},
		})
		assert.ErrorIs(t, err, models.ConfigurationErr)
	})
}
