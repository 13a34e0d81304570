package models

// SignalAction tags one bar of a strategy's signal stream. The backtest engine
// only consumes the tag; the rule that produced it belongs to the indicator.
type SignalAction int

const (
	SignalActionNone SignalAction = iota
	SignalActionEntry
	SignalActionExit
)

func (a SignalAction) String() string {
	switch a {
	case SignalActionEntry:
		return "entry"
	case SignalActionExit:
		return "exit"
	default:
		return "none"
	}
}

// SignalLabel is the classification emitted by an indicator or analysis
// category. Technical collaborators speak buy/hold/sell, fundamental and
// valuation collaborators speak bullish/neutral/bearish.
type SignalLabel string

const (
	SignalLabelBuy     SignalLabel = "buy"
	SignalLabelHold    SignalLabel = "hold"
	SignalLabelSell    SignalLabel = "sell"
	SignalLabelBullish SignalLabel = "bullish"
	SignalLabelNeutral SignalLabel = "neutral"
	SignalLabelBearish SignalLabel = "bearish"
)

// Score maps a label onto the [-1, 1] scale used by the aggregator.
// Unrecognized labels score 0 so that a missing category degrades to neutral
// instead of failing.
func (s SignalLabel) Score() float64 {
	switch s {
	case SignalLabelBuy, SignalLabelBullish:
		return 1.0
	case SignalLabelSell, SignalLabelBearish:
		return -1.0
	default:
		return 0.0
	}
}

// VerdictLabel is the final recommendation rendered downstream.
type VerdictLabel string

const (
	VerdictBuy  VerdictLabel = "BUY"
	VerdictHold VerdictLabel = "HOLD"
	VerdictSell VerdictLabel = "SELL"
)

func (v VerdictLabel) ToSignalLabel() SignalLabel {
	switch v {
	case VerdictBuy:
		return SignalLabelBuy
	case VerdictSell:
		return SignalLabelSell
	default:
		return SignalLabelHold
	}
}
