package models

// BacktestResult holds the performance metrics of one simulated strategy.
// All percent fields are already multiplied by 100, the units the
// presentation layer renders verbatim. Never mutated after construction.
type BacktestResult struct {
	Ticker         string
	Strategy       string
	NTrades        int
	WinRatePct     float64
	AvgReturnPct   float64
	TotalReturnPct float64
	BuyHoldPct     float64
	AvgHoldDays    float64
	MaxDrawdownPct float64
	Sharpe         float64
	Trades         Trades
}

type BacktestSummaryDTO struct {
	Ticker         string  `json:"ticker"`
	Strategy       string  `json:"strategy"`
	NTrades        int     `json:"n_trades"`
	WinRatePct     float64 `json:"win_rate_%"`
	AvgReturnPct   float64 `json:"avg_trade_%"`
	TotalReturnPct float64 `json:"total_return_%"`
	BuyHoldPct     float64 `json:"buy_hold_%"`
	AvgHoldDays    float64 `json:"avg_hold_days"`
	MaxDrawdownPct float64 `json:"max_drawdown_%"`
	Sharpe         float64 `json:"sharpe"`
}

func (r *BacktestResult) ConvertToDTO() *BacktestSummaryDTO {
	return &BacktestSummaryDTO{
		Ticker:         r.Ticker,
		Strategy:       r.Strategy,
		NTrades:        r.NTrades,
		WinRatePct:     roundTo(r.WinRatePct, 1),
		AvgReturnPct:   roundTo(r.AvgReturnPct, 2),
		TotalReturnPct: roundTo(r.TotalReturnPct, 1),
		BuyHoldPct:     roundTo(r.BuyHoldPct, 1),
		AvgHoldDays:    roundTo(r.AvgHoldDays, 1),
		MaxDrawdownPct: roundTo(r.MaxDrawdownPct, 1),
		Sharpe:         roundTo(r.Sharpe, 2),
	}
}
