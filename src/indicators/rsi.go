package indicators

import (
	"fmt"
	"math"

	"stock-advisor/src/models"
)

// Rsi is the Wilder-smoothed relative strength index with the classic
// oversold/overbought thresholds.
type Rsi struct {
	Period      int
	Oversold    float64
	Overbought  float64
	prevAvgGain *float64
	prevAvgLoss *float64
	closes      []float64
}

func NewRsi(period int, oversold, overbought float64) *Rsi {
	return &Rsi{
		Period:     period,
		Oversold:   oversold,
		Overbought: overbought,
	}
}

func (r *Rsi) Name() string {
	return fmt.Sprintf("RSI %d", r.Period)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func (r *Rsi) deriveRS() float64 {
	if r.prevAvgGain != nil {
		curPrice := r.closes[len(r.closes)-1]
		prevPrice := r.closes[len(r.closes)-2]
		delta := curPrice - prevPrice

		var deltaGain, deltaLoss float64
		if delta > 0 {
			deltaGain = delta
			deltaLoss = 0.0
		} else {
			deltaGain = 0.0
			deltaLoss = math.Abs(delta)
		}

		avgGain := ((*r.prevAvgGain)*(float64(r.Period)-1.0) + deltaGain) / float64(r.Period)
		avgLoss := ((*r.prevAvgLoss)*(float64(r.Period)-1.0) + deltaLoss) / float64(r.Period)

		r.prevAvgGain = &avgGain
		r.prevAvgLoss = &avgLoss

		if avgLoss == 0 {
			return math.Inf(1)
		}

		return avgGain / avgLoss
	}

	gains := make([]float64, r.Period+1)
	losses := make([]float64, r.Period+1)

	prevPrice := r.closes[0]
	for i, price := range r.closes {
		delta := price - prevPrice
		if delta > 0 {
			gains[i] = delta
			losses[i] = 0
		} else {
			gains[i] = 0
			losses[i] = math.Abs(delta)
		}

		prevPrice = price
	}

	avgGain := average(gains[1:])
	avgLoss := average(losses[1:])
	r.prevAvgGain = &avgGain
	r.prevAvgLoss = &avgLoss

	if avgLoss == 0 {
		return math.Inf(1)
	}

	return avgGain / avgLoss
}

// Update consumes one candle and reports the RSI value once the warmup window
// has filled.
func (r *Rsi) Update(c models.Candle) (bool, float64) {
	if len(r.closes) < r.Period {
		r.closes = append(r.closes, c.Close)
		return false, 0
	}

	r.closes = append(r.closes, c.Close)

	rs := r.deriveRS()

	r.closes = r.closes[1:]

	if math.IsInf(rs, 1) {
		return true, 100
	}

	return true, 100 - (100 / (1 + rs))
}

func (r *Rsi) values(candles models.Candles) ([]float64, []bool) {
	rsi := NewRsi(r.Period, r.Oversold, r.Overbought)

	values := make([]float64, len(candles))
	valid := make([]bool, len(candles))
	for i, c := range candles {
		valid[i], values[i] = rsi.Update(c)
	}

	return values, valid
}

// Signals tags an entry when the RSI crosses back up through the oversold
// threshold and an exit when it crosses back down through the overbought
// threshold.
func (r *Rsi) Signals(candles models.Candles) ([]models.SignalAction, error) {
	values, valid := r.values(candles)
	actions := make([]models.SignalAction, len(candles))

	for i := 1; i < len(candles); i++ {
		if !valid[i] || !valid[i-1] {
			continue
		}

		if values[i] > r.Oversold && values[i-1] <= r.Oversold {
			actions[i] = models.SignalActionEntry
		} else if values[i] < r.Overbought && values[i-1] >= r.Overbought {
			actions[i] = models.SignalActionExit
		}
	}

	return actions, nil
}

func (r *Rsi) Current(candles models.Candles) (Snapshot, error) {
	values, valid := r.values(candles)

	last := len(candles) - 1
	if last < 0 || !valid[last] {
		return Snapshot{Signal: models.SignalLabelNeutral, Reason: "Insufficient data"}, nil
	}

	rsiVal := values[last]

	var signal models.SignalLabel
	var reason string
	switch {
	case rsiVal < r.Oversold:
		signal = models.SignalLabelBuy
		reason = fmt.Sprintf("RSI %.1f is oversold (< %.0f)", rsiVal, r.Oversold)
	case rsiVal > r.Overbought:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("RSI %.1f is overbought (> %.0f)", rsiVal, r.Overbought)
	case rsiVal < 50:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("RSI %.1f is neutral-bearish (%.0f-50)", rsiVal, r.Oversold)
	default:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("RSI %.1f is neutral-bullish (50-%.0f)", rsiVal, r.Overbought)
	}

	return Snapshot{
		Signal: signal,
		Reason: reason,
		Fields: map[string]float64{
			"rsi":                  rsiVal,
			"oversold_threshold":   r.Oversold,
			"overbought_threshold": r.Overbought,
		},
	}, nil
}
