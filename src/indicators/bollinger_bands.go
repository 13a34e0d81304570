package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"stock-advisor/src/models"
)

type BollingerBands struct {
	SmaPeriod         int
	StandardDeviation float64
	closes            []float64
}

type BollingerBandsStats struct {
	Upper         float64
	Lower         float64
	MovingAverage float64
}

func NewBollingerBands(smaPeriod int, standardDeviation float64) *BollingerBands {
	return &BollingerBands{
		SmaPeriod:         smaPeriod,
		StandardDeviation: standardDeviation,
	}
}

func (b *BollingerBands) Name() string {
	return "Bollinger Bands"
}

// Update consumes one candle and reports the band values once the rolling
// window is full.
func (b *BollingerBands) Update(c models.Candle) (bool, BollingerBandsStats, error) {
	b.closes = append(b.closes, c.Close)
	if len(b.closes) < b.SmaPeriod {
		return false, BollingerBandsStats{}, nil
	}

	if len(b.closes) > b.SmaPeriod {
		b.closes = b.closes[1:]
	}

	movingAverage, err := stats.Mean(b.closes)
	if err != nil {
		return false, BollingerBandsStats{}, fmt.Errorf("failed to calculate mean: %v", err)
	}

	sd, err := stats.StandardDeviation(b.closes)
	if err != nil {
		return false, BollingerBandsStats{}, fmt.Errorf("failed to calculate the standard deviation: %v", err)
	}

	return true, BollingerBandsStats{
		Upper:         movingAverage + (b.StandardDeviation * sd),
		Lower:         movingAverage - (b.StandardDeviation * sd),
		MovingAverage: movingAverage,
	}, nil
}

// Signals tags an entry when the close drops below the lower band and an exit
// once the close recovers above the upper band or back to the moving average.
func (b *BollingerBands) Signals(candles models.Candles) ([]models.SignalAction, error) {
	bb := NewBollingerBands(b.SmaPeriod, b.StandardDeviation)
	actions := make([]models.SignalAction, len(candles))

	inPosition := false
	for i, c := range candles {
		full, bands, err := bb.Update(c)
		if err != nil {
			return nil, fmt.Errorf("BollingerBands.Signals: %w", err)
		}

		if !full {
			continue
		}

		if !inPosition && c.Close < bands.Lower {
			actions[i] = models.SignalActionEntry
			inPosition = true
		} else if inPosition && (c.Close > bands.Upper || c.Close >= bands.MovingAverage) {
			actions[i] = models.SignalActionExit
			inPosition = false
		}
	}

	return actions, nil
}

func (b *BollingerBands) Current(candles models.Candles) (Snapshot, error) {
	bb := NewBollingerBands(b.SmaPeriod, b.StandardDeviation)

	var bands BollingerBandsStats
	haveBands := false
	for _, c := range candles {
		full, bs, err := bb.Update(c)
		if err != nil {
			return Snapshot{}, fmt.Errorf("BollingerBands.Current: %w", err)
		}

		if full {
			bands = bs
			haveBands = true
		}
	}

	if !haveBands {
		return Snapshot{Signal: models.SignalLabelNeutral, Reason: "Insufficient data"}, nil
	}

	price := candles.LastClose()
	width := (bands.Upper - bands.Lower) / bands.MovingAverage

	var signal models.SignalLabel
	var reason string
	switch {
	case price < bands.Lower:
		signal = models.SignalLabelBuy
		reason = fmt.Sprintf("Price $%.2f below lower band $%.2f", price, bands.Lower)
	case price > bands.Upper:
		signal = models.SignalLabelSell
		reason = fmt.Sprintf("Price $%.2f above upper band $%.2f", price, bands.Upper)
	case price > bands.MovingAverage:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("Price above SMA, within bands (width: %.2f%%)", width*100)
	default:
		signal = models.SignalLabelHold
		reason = fmt.Sprintf("Price below SMA, within bands (width: %.2f%%)", width*100)
	}

	return Snapshot{
		Signal: signal,
		Reason: reason,
		Fields: map[string]float64{
			"price":        price,
			"upper_band":   bands.Upper,
			"lower_band":   bands.Lower,
			"sma":          bands.MovingAverage,
			"band_width_%": width * 100,
		},
	}, nil
}
