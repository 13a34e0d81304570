package indicators

import "stock-advisor/src/models"

// Snapshot is the present-day reading of one indicator: its label, a
// human-readable reason, and indicator-specific numeric fields.
type Snapshot struct {
	Signal models.SignalLabel
	Reason string
	Fields map[string]float64
}

// SignalGenerator is the capability each indicator implements. The backtest
// engine depends only on the Signals output shape, never on which indicator
// produced it.
type SignalGenerator interface {
	Name() string
	Signals(candles models.Candles) ([]models.SignalAction, error)
	Current(candles models.Candles) (Snapshot, error)
}

// DefaultSet returns the standard indicator suite with the documented
// parameters.
func DefaultSet() []SignalGenerator {
	return []SignalGenerator{
		NewBollingerBands(20, 2.0),
		NewSmaCross(50, 200),
		NewEmaCross(12, 26),
		NewRsi(14, 30, 70),
		NewMacd(12, 26, 9),
	}
}
