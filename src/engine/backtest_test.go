package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-advisor/src/models"
)

func newDailyCandles(prices ...float64) models.Candles {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	candles := make(models.Candles, len(prices))
	for i, p := range prices {
		candles[i] = models.NewCandle(start.AddDate(0, 0, i), p, p, p, p)
	}

	return candles
}

func TestBacktestScenario(t *testing.T) {
	candles := newDailyCandles(100, 102, 99, 105, 108)
	actions := []models.SignalAction{
		models.SignalActionNone,
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionExit,
		models.SignalActionNone,
	}

	result, err := Run("TEST", "scenario", candles, actions, 0.001)
	require.NoError(t, err)

	require.Equal(t, 1, result.NTrades)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, 2, trade.EntryIndex)
	assert.Equal(t, 4, trade.ExitIndex)
	assert.Equal(t, 2, trade.HoldDays)
	assert.Equal(t, models.ExitReasonSignal, trade.ExitReason)
	assert.InDelta(t, 99*1.001, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 108*0.999, trade.ExitPrice, 1e-9)

	expectedPct := (108*0.999/(99*1.001) - 1) * 100
	assert.InDelta(t, expectedPct, trade.PctReturn, 1e-9)
	assert.InDelta(t, expectedPct, result.TotalReturnPct, 1e-9)

	assert.Equal(t, 100.0, result.WinRatePct)
	assert.InDelta(t, 8.0, result.BuyHoldPct, 1e-9)
	assert.Equal(t, 0.0, result.MaxDrawdownPct)
	assert.Equal(t, 0.0, result.Sharpe) // a single trade has no return variance
}

func TestBacktestDeterminism(t *testing.T) {
	candles := newDailyCandles(100, 100, 110, 110, 90, 90)
	actions := []models.SignalAction{
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionExit,
		models.SignalActionEntry,
		models.SignalActionExit,
		models.SignalActionNone,
	}

	first, err := Run("TEST", "determinism", candles, actions, 0.001)
	require.NoError(t, err)

	second, err := Run("TEST", "determinism", candles, actions, 0.001)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBacktestNoLookahead(t *testing.T) {
	t.Run("entry signal on the last bar is discarded", func(t *testing.T) {
		candles := newDailyCandles(100, 101, 102)
		actions := []models.SignalAction{
			models.SignalActionNone,
			models.SignalActionNone,
			models.SignalActionEntry,
		}

		result, err := Run("TEST", "lookahead", candles, actions, 0.001)
		require.NoError(t, err)
		assert.Equal(t, 0, result.NTrades)
	})

	t.Run("entry that would fill on the final bar is discarded", func(t *testing.T) {
		candles := newDailyCandles(100, 101, 102)
		actions := []models.SignalAction{
			models.SignalActionNone,
			models.SignalActionEntry,
			models.SignalActionNone,
		}

		result, err := Run("TEST", "lookahead", candles, actions, 0.001)
		require.NoError(t, err)
		assert.Equal(t, 0, result.NTrades)
	})
}

func TestBacktestForcedClose(t *testing.T) {
	candles := newDailyCandles(100, 102, 99, 105, 108)
	actions := []models.SignalAction{
		models.SignalActionNone,
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionNone,
		models.SignalActionNone,
	}

	result, err := Run("TEST", "forced", candles, actions, 0.001)
	require.NoError(t, err)

	require.Equal(t, 1, result.NTrades)

	trade := result.Trades[0]
	assert.Equal(t, 2, trade.EntryIndex)
	assert.Equal(t, 4, trade.ExitIndex)
	assert.Equal(t, models.ExitReasonForced, trade.ExitReason)
	assert.InDelta(t, 108*0.999, trade.ExitPrice, 1e-9)
	assert.Greater(t, trade.ExitIndex, trade.EntryIndex)
}

func TestBacktestWinRateBounds(t *testing.T) {
	candles := newDailyCandles(100, 100, 110, 110, 90, 90)
	actions := []models.SignalAction{
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionExit,
		models.SignalActionEntry,
		models.SignalActionExit,
		models.SignalActionNone,
	}

	result, err := Run("TEST", "winrate", candles, actions, 0.001)
	require.NoError(t, err)

	require.Equal(t, 2, result.NTrades)
	assert.True(t, result.Trades[0].Win())
	assert.False(t, result.Trades[1].Win())
	assert.Equal(t, 50.0, result.WinRatePct)
	assert.GreaterOrEqual(t, result.WinRatePct, 0.0)
	assert.LessOrEqual(t, result.WinRatePct, 100.0)
}

func TestBacktestCommissionMonotonicity(t *testing.T) {
	candles := newDailyCandles(100, 102, 99, 105, 108)
	actions := []models.SignalAction{
		models.SignalActionNone,
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionExit,
		models.SignalActionNone,
	}

	var prevTotal float64
	for i, rate := range []float64{0, 0.001, 0.01} {
		result, err := Run("TEST", "commission", candles, actions, rate)
		require.NoError(t, err)

		if i > 0 {
			assert.Less(t, result.TotalReturnPct, prevTotal, "commission rate %v", rate)
		}

		prevTotal = result.TotalReturnPct
	}
}

func TestBacktestZeroTrades(t *testing.T) {
	candles := newDailyCandles(100, 102, 104)
	actions := make([]models.SignalAction, len(candles))

	result, err := Run("TEST", "flat", candles, actions, 0.001)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NTrades)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 0.0, result.WinRatePct)
	assert.Equal(t, 0.0, result.TotalReturnPct)
	assert.Equal(t, 0.0, result.Sharpe)
	assert.Equal(t, 0.0, result.MaxDrawdownPct)
	assert.InDelta(t, 4.0, result.BuyHoldPct, 1e-9)
}

func TestBacktestValidation(t *testing.T) {
	candles := newDailyCandles(100, 102, 104)
	actions := make([]models.SignalAction, len(candles))

	t.Run("fewer than two bars", func(t *testing.T) {
		_, err := Run("TEST", "validation", newDailyCandles(100), []models.SignalAction{models.SignalActionNone}, 0.001)
		assert.ErrorIs(t, err, models.InsufficientDataErr)
	})

	t.Run("misaligned series", func(t *testing.T) {
		_, err := Run("TEST", "validation", candles, actions[:2], 0.001)
		assert.ErrorIs(t, err, models.ValidationErr)
		assert.ErrorIs(t, err, models.MisalignedSeriesErr)
	})

	t.Run("negative commission", func(t *testing.T) {
		_, err := Run("TEST", "validation", candles, actions, -0.001)
		assert.ErrorIs(t, err, models.ValidationErr)
	})

	t.Run("duplicate dates", func(t *testing.T) {
		duped := models.Candles{candles[0], candles[0], candles[1]}
		_, err := Run("TEST", "validation", duped, actions, 0.001)
		assert.ErrorIs(t, err, models.DuplicateCandleErr)
	})

	t.Run("out of order dates", func(t *testing.T) {
		unsorted := models.Candles{candles[1], candles[0], candles[2]}
		_, err := Run("TEST", "validation", unsorted, actions, 0.001)
		assert.ErrorIs(t, err, models.CandlesNotSortedErr)
	})
}

func TestBacktestInputsNotMutated(t *testing.T) {
	candles := newDailyCandles(100, 102, 99, 105, 108)
	actions := []models.SignalAction{
		models.SignalActionNone,
		models.SignalActionEntry,
		models.SignalActionNone,
		models.SignalActionExit,
		models.SignalActionNone,
	}

	candlesCopy := append(models.Candles{}, candles...)
	actionsCopy := append([]models.SignalAction{}, actions...)

	_, err := Run("TEST", "immutability", candles, actions, 0.001)
	require.NoError(t, err)

	assert.Equal(t, candlesCopy, candles)
	assert.Equal(t, actionsCopy, actions)
}

func TestMaxDrawdown(t *testing.T) {
	assert.Equal(t, 0.0, maxDrawdown([]float64{10000, 10500, 11000}))
	assert.InDelta(t, -10.0, maxDrawdown([]float64{10000, 11000, 9900, 10450}), 1e-9)
}

func TestSharpeRatioZeroVariance(t *testing.T) {
	sharpe, err := sharpeRatio([]float64{1.5, 1.5, 1.5})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, sharpe)
}
