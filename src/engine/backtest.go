package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"stock-advisor/src/models"
)

const (
	// DefaultCommissionRate is charged once per side, per the documented
	// methodology (0.1% entry + 0.1% exit).
	DefaultCommissionRate = 0.001

	// startingEquity is the notional capital the equity curve compounds from.
	startingEquity = 10_000.0

	// tradingDaysPerYear annualizes the per-day Sharpe ratio.
	tradingDaysPerYear = 252.0
)

var tradeIDNamespace = uuid.MustParse("5d3f1a52-7c0e-4f6b-9a81-2e8f0b64c7d3")

// Run simulates a long-only, single-position strategy over a daily price
// series and an aligned entry/exit signal stream.
//
// A signal on bar i fills at bar i+1's open: executing at the signalling
// bar's own close would look ahead. Commission is applied multiplicatively
// per side (entry price x (1+rate), exit price x (1-rate)). A position still
// open at the end of the series is force-closed at the final bar's close.
//
// The result is a pure function of the inputs; identical inputs yield an
// identical result.
func Run(ticker, strategy string, candles models.Candles, actions []models.SignalAction, commissionRate float64) (*models.BacktestResult, error) {
	if len(candles) < 2 {
		return nil, fmt.Errorf("Run: %d candles: %w", len(candles), models.InsufficientDataErr)
	}

	if len(candles) != len(actions) {
		return nil, fmt.Errorf("Run: %d candles vs %d signals: %w", len(candles), len(actions), models.MisalignedSeriesErr)
	}

	if commissionRate < 0 {
		return nil, fmt.Errorf("Run: %v: %w", commissionRate, models.NegativeCommissionErr)
	}

	if err := candles.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	lastIndex := len(candles) - 1

	var trades models.Trades
	equity := startingEquity
	equityCurve := []float64{equity}

	inPosition := false
	var entryIndex int
	var entryPrice float64

	closeTrade := func(exitIndex int, rawExitPrice float64, reason string) {
		exitPrice := rawExitPrice * (1 - commissionRate)
		pct := (exitPrice - entryPrice) / entryPrice * 100

		equity *= 1 + pct/100
		equityCurve = append(equityCurve, equity)

		trades = append(trades, models.Trade{
			ID:         newTradeID(ticker, strategy, entryIndex, exitIndex),
			EntryIndex: entryIndex,
			ExitIndex:  exitIndex,
			EntryDate:  candles[entryIndex].Date,
			ExitDate:   candles[exitIndex].Date,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			PctReturn:  pct,
			HoldDays:   exitIndex - entryIndex,
			ExitReason: reason,
		})

		inPosition = false
	}

	for i := 0; i < len(candles); i++ {
		switch actions[i] {
		case models.SignalActionEntry:
			if inPosition {
				continue
			}

			// A fill on the final bar leaves no later bar to exit on, so the
			// entry is discarded along with entries signalled on the last bar.
			if i+1 >= lastIndex {
				continue
			}

			entryIndex = i + 1
			entryPrice = candles[entryIndex].Open * (1 + commissionRate)
			inPosition = true

		case models.SignalActionExit:
			if !inPosition {
				continue
			}

			// An exit signalled on the last bar has no next open; the forced
			// close below settles it at the final close instead.
			if i+1 > lastIndex {
				continue
			}

			closeTrade(i+1, candles[i+1].Open, models.ExitReasonSignal)
		}
	}

	if inPosition {
		closeTrade(lastIndex, candles[lastIndex].Close, models.ExitReasonForced)
	}

	result := &models.BacktestResult{
		Ticker:     ticker,
		Strategy:   strategy,
		NTrades:    len(trades),
		BuyHoldPct: (candles[lastIndex].Close/candles[0].Close - 1) * 100,
		Trades:     trades,
	}

	if len(trades) == 0 {
		log.Debugf("Run: %s/%s produced no trades over %d bars", ticker, strategy, len(candles))
		return result, nil
	}

	returns := make([]float64, len(trades))
	perDayReturns := make([]float64, len(trades))
	holdDays := make([]float64, len(trades))
	wins := 0
	for i, tr := range trades {
		returns[i] = tr.PctReturn
		perDayReturns[i] = tr.PctReturn / float64(tr.HoldDays)
		holdDays[i] = float64(tr.HoldDays)

		if tr.Win() {
			wins++
		}
	}

	avgReturn, err := stats.Mean(returns)
	if err != nil {
		return nil, fmt.Errorf("Run: failed to calculate mean trade return: %v", err)
	}

	avgHold, err := stats.Mean(holdDays)
	if err != nil {
		return nil, fmt.Errorf("Run: failed to calculate mean holding period: %v", err)
	}

	sharpe, err := sharpeRatio(perDayReturns)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	result.WinRatePct = float64(wins) / float64(len(trades)) * 100
	result.AvgReturnPct = avgReturn
	result.TotalReturnPct = (equity/startingEquity - 1) * 100
	result.AvgHoldDays = avgHold
	result.MaxDrawdownPct = maxDrawdown(equityCurve)
	result.Sharpe = sharpe

	return result, nil
}

// sharpeRatio is the mean per-day trade return over its population standard
// deviation, annualized by sqrt(252). Zero when the returns have no variance.
func sharpeRatio(perDayReturns []float64) (float64, error) {
	mean, err := stats.Mean(perDayReturns)
	if err != nil {
		return 0, fmt.Errorf("sharpeRatio: failed to calculate mean: %v", err)
	}

	sd, err := stats.StandardDeviation(perDayReturns)
	if err != nil {
		return 0, fmt.Errorf("sharpeRatio: failed to calculate the standard deviation: %v", err)
	}

	if sd == 0 {
		return 0, nil
	}

	return mean / sd * math.Sqrt(tradingDaysPerYear), nil
}

// maxDrawdown reports the deepest peak-to-trough decline of the compounded
// equity curve as a percentage at or below zero.
func maxDrawdown(equityCurve []float64) float64 {
	peak := equityCurve[0]
	maxDD := 0.0

	for _, eq := range equityCurve {
		if eq > peak {
			peak = eq
		}

		dd := (eq - peak) / peak * 100
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

// newTradeID derives a stable id from the trade's coordinates so that
// re-running a backtest reproduces its result bit for bit.
func newTradeID(ticker, strategy string, entryIndex, exitIndex int) uuid.UUID {
	return uuid.NewSHA1(tradeIDNamespace, []byte(fmt.Sprintf("%s|%s|%d|%d", ticker, strategy, entryIndex, exitIndex)))
}
