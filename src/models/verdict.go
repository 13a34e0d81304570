package models

// Verdict is the final composite recommendation. Derived and stateless:
// recomputed fresh per request, never persisted.
type Verdict struct {
	Label          VerdictLabel
	CompositeScore float64
	ConfidencePct  int
	Breakdown      map[CategoryType]CategoryScore
}

// VoteSummary counts per-indicator votes inside the technical category.
type VoteSummary struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
	Hold int `json:"hold"`
}

type AgentSignalDTO struct {
	Signal      SignalLabel  `json:"signal"`
	VoteSummary *VoteSummary `json:"votes,omitempty"`
	GapPct      *float64     `json:"gap_%,omitempty"`
}

// IndicatorBreakdownEntryDTO is one row of the dashboard breakdown. Field
// names and percent units are rendered verbatim downstream.
type IndicatorBreakdownEntryDTO struct {
	Signal             SignalLabel `json:"signal"`
	BacktestWinRatePct *float64    `json:"backtest_win_rate_%,omitempty"`
	BacktestTrades     *int        `json:"backtest_trades,omitempty"`
	GapPct             *float64    `json:"gap_%,omitempty"`
}

type VerdictDTO struct {
	Ticker             string                                `json:"ticker"`
	Price              float64                               `json:"price,omitempty"`
	AsOf               string                                `json:"as_of,omitempty"`
	Signal             SignalLabel                           `json:"signal"`
	Confidence         int                                   `json:"confidence"`
	WeightedScore      float64                               `json:"weighted_score"`
	AiVerdict          VerdictLabel                          `json:"ai_verdict"`
	AiConfidence       int                                   `json:"ai_confidence"`
	AgentSignals       map[CategoryType]AgentSignalDTO       `json:"agent_signals"`
	IndicatorBreakdown map[string]IndicatorBreakdownEntryDTO `json:"indicator_breakdown"`
}

// ConvertToDTO fills the verdict-derived fields; the services layer attaches
// the ticker, agent signals and indicator breakdown.
func (v *Verdict) ConvertToDTO() *VerdictDTO {
	return &VerdictDTO{
		Signal:        v.Label.ToSignalLabel(),
		Confidence:    v.ConfidencePct,
		WeightedScore: roundTo(v.CompositeScore, 3),
		AiVerdict:     v.Label,
		AiConfidence:  v.ConfidencePct,
	}
}
