package indicators

import (
	"fmt"

	"stock-advisor/src/models"
)

// EmaCross is the exponential moving average crossover strategy, 12/26 by
// default.
type EmaCross struct {
	FastSpan int
	SlowSpan int
}

func NewEmaCross(fastSpan, slowSpan int) *EmaCross {
	return &EmaCross{
		FastSpan: fastSpan,
		SlowSpan: slowSpan,
	}
}

func (e *EmaCross) Name() string {
	return fmt.Sprintf("EMA %d/%d", e.FastSpan, e.SlowSpan)
}

func (e *EmaCross) Signals(candles models.Candles) ([]models.SignalAction, error) {
	closes := candles.Closes()
	fast := emaSeries(closes, e.FastSpan)
	slow := emaSeries(closes, e.SlowSpan)

	above := make([]bool, len(candles))
	for i := range candles {
		above[i] = fast[i] > slow[i]
	}

	return crossoverActions(above), nil
}

func (e *EmaCross) Current(candles models.Candles) (Snapshot, error) {
	if len(candles) == 0 {
		return Snapshot{Signal: models.SignalLabelNeutral, Reason: "Insufficient data"}, nil
	}

	closes := candles.Closes()
	fast := emaSeries(closes, e.FastSpan)
	slow := emaSeries(closes, e.SlowSpan)

	last := len(candles) - 1
	gapPct := (fast[last] - slow[last]) / slow[last] * 100

	allFull := make([]bool, len(candles))
	for i := range allFull {
		allFull[i] = true
	}
	crossedAbove, crossedBelow := recentCross(fast, slow, allFull, 3)

	var signal models.SignalLabel
	switch {
	case crossedAbove:
		signal = models.SignalLabelBuy
	case crossedBelow || fast[last] < slow[last]:
		signal = models.SignalLabelSell
	default:
		signal = models.SignalLabelHold
	}

	cmp := "<"
	if fast[last] > slow[last] {
		cmp = ">"
	}
	reason := fmt.Sprintf("EMA%d (%.2f) %s EMA%d (%.2f), gap %+.1f%%", e.FastSpan, fast[last], cmp, e.SlowSpan, slow[last], gapPct)

	return Snapshot{
		Signal: signal,
		Reason: reason,
		Fields: map[string]float64{
			fmt.Sprintf("ema_%d", e.FastSpan): fast[last],
			fmt.Sprintf("ema_%d", e.SlowSpan): slow[last],
			"gap_%":                           gapPct,
		},
	}, nil
}
