package indicators

import (
	"fmt"

	"stock-advisor/src/models"
)

// SmaCross is the golden cross / death cross strategy over two simple moving
// averages, 50/200 by default.
type SmaCross struct {
	FastPeriod int
	SlowPeriod int
}

func NewSmaCross(fastPeriod, slowPeriod int) *SmaCross {
	return &SmaCross{
		FastPeriod: fastPeriod,
		SlowPeriod: slowPeriod,
	}
}

func (s *SmaCross) Name() string {
	return fmt.Sprintf("SMA %d/%d", s.FastPeriod, s.SlowPeriod)
}

func (s *SmaCross) series(candles models.Candles) (fast []float64, slow []float64, full []bool) {
	closes := candles.Closes()
	fast, fastFull := rollingMean(closes, s.FastPeriod)
	slow, slowFull := rollingMean(closes, s.SlowPeriod)

	full = make([]bool, len(closes))
	for i := range full {
		full[i] = fastFull[i] && slowFull[i]
	}

	return fast, slow, full
}

func (s *SmaCross) Signals(candles models.Candles) ([]models.SignalAction, error) {
	fast, slow, full := s.series(candles)

	above := make([]bool, len(candles))
	for i := range candles {
		above[i] = full[i] && fast[i] > slow[i]
	}

	return crossoverActions(above), nil
}

func (s *SmaCross) Current(candles models.Candles) (Snapshot, error) {
	fast, slow, full := s.series(candles)

	last := len(candles) - 1
	if last < 0 || !full[last] {
		return Snapshot{Signal: models.SignalLabelNeutral, Reason: fmt.Sprintf("Insufficient data for SMA%d", s.SlowPeriod)}, nil
	}

	gapPct := (fast[last] - slow[last]) / slow[last] * 100
	crossedAbove, crossedBelow := recentCross(fast, slow, full, 5)

	var signal models.SignalLabel
	var reason string
	switch {
	case crossedAbove:
		signal = models.SignalLabelBuy
		reason = fmt.Sprintf("Golden Cross: SMA%d just crossed above SMA%d", s.FastPeriod, s.SlowPeriod)
	case crossedBelow:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("Death Cross: SMA%d just crossed below SMA%d", s.FastPeriod, s.SlowPeriod)
	case fast[last] > slow[last]:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("Bullish alignment: SMA%d (%.2f) > SMA%d (%.2f), gap %+.1f%%", s.FastPeriod, fast[last], s.SlowPeriod, slow[last], gapPct)
	default:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("Bearish alignment: SMA%d (%.2f) < SMA%d (%.2f), gap %+.1f%%", s.FastPeriod, fast[last], s.SlowPeriod, slow[last], gapPct)
	}

	return Snapshot{
		Signal: signal,
		Reason: reason,
		Fields: map[string]float64{
			fmt.Sprintf("sma_%d", s.FastPeriod): fast[last],
			fmt.Sprintf("sma_%d", s.SlowPeriod): slow[last],
			"gap_%":                             gapPct,
		},
	}, nil
}

// recentCross reports whether the fast line crossed the slow line within the
// trailing lookback window.
func recentCross(fast, slow []float64, full []bool, lookback int) (crossedAbove bool, crossedBelow bool) {
	start := len(fast) - lookback + 1
	if start < 1 {
		start = 1
	}

	for i := start; i < len(fast); i++ {
		if !full[i] || !full[i-1] {
			continue
		}

		if fast[i] > slow[i] && fast[i-1] <= slow[i-1] {
			crossedAbove = true
		}

		if fast[i] < slow[i] && fast[i-1] >= slow[i-1] {
			crossedBelow = true
		}
	}

	return crossedAbove, crossedBelow
}
