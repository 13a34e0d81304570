package indicators

import (
	"fmt"

	"stock-advisor/src/models"
)

// Macd is the moving average convergence divergence strategy: the MACD line
// against its signal line, 12/26/9 by default.
type Macd struct {
	FastSpan   int
	SlowSpan   int
	SignalSpan int
}

func NewMacd(fastSpan, slowSpan, signalSpan int) *Macd {
	return &Macd{
		FastSpan:   fastSpan,
		SlowSpan:   slowSpan,
		SignalSpan: signalSpan,
	}
}

func (m *Macd) Name() string {
	return fmt.Sprintf("MACD %d/%d/%d", m.FastSpan, m.SlowSpan, m.SignalSpan)
}

func (m *Macd) series(candles models.Candles) (macd []float64, signalLine []float64) {
	closes := candles.Closes()
	fast := emaSeries(closes, m.FastSpan)
	slow := emaSeries(closes, m.SlowSpan)

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}

	return macd, emaSeries(macd, m.SignalSpan)
}

func (m *Macd) Signals(candles models.Candles) ([]models.SignalAction, error) {
	macd, signalLine := m.series(candles)

	above := make([]bool, len(candles))
	for i := range candles {
		above[i] = macd[i] > signalLine[i]
	}

	return crossoverActions(above), nil
}

func (m *Macd) Current(candles models.Candles) (Snapshot, error) {
	if len(candles) < 2 {
		return Snapshot{Signal: models.SignalLabelNeutral, Reason: "Insufficient data"}, nil
	}

	macd, signalLine := m.series(candles)

	last := len(candles) - 1
	macdVal := macd[last]
	sigVal := signalLine[last]
	histVal := macdVal - sigVal

	crossedAbove := macdVal > sigVal && macd[last-1] <= signalLine[last-1]
	crossedBelow := macdVal < sigVal && macd[last-1] >= signalLine[last-1]

	var signal models.SignalLabel
	var reason string
	switch {
	case crossedAbove:
		signal = models.SignalLabelBuy
		reason = fmt.Sprintf("MACD (%.3f) just crossed above signal (%.3f)", macdVal, sigVal)
	case crossedBelow:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("MACD (%.3f) just crossed below signal (%.3f)", macdVal, sigVal)
	case macdVal > sigVal:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("MACD (%.3f) above signal (%.3f), histogram %.3f", macdVal, sigVal, histVal)
	default:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("MACD (%.3f) below signal (%.3f), histogram %.3f", macdVal, sigVal, histVal)
	}

	return Snapshot{
		Signal: signal,
		Reason: reason,
		Fields: map[string]float64{
			"macd":        macdVal,
			"signal_line": sigVal,
			"histogram":   histVal,
		},
	}, nil
}
