package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stock-advisor/src/engine"
	"stock-advisor/src/indicators"
	"stock-advisor/src/models"
)

// IndicatorResult pairs an indicator's present-day reading with its
// historical backtest.
type IndicatorResult struct {
	Name     string
	Snapshot indicators.Snapshot
	Backtest *models.BacktestResult
}

// TechnicalAnalysisResult is the technical category before aggregation.
type TechnicalAnalysisResult struct {
	Ticker     string
	Price      float64
	AsOf       string
	Indicators map[string]IndicatorResult
	Overall    models.SignalLabel
	Votes      models.VoteSummary
}

// indicatorNames returns the indicator keys in a stable order.
func (r *TechnicalAnalysisResult) indicatorNames() []string {
	names := make([]string, 0, len(r.Indicators))
	for name := range r.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Labels returns the per-indicator labels in a stable order, the shape the
// aggregator's roll-up consumes.
func (r *TechnicalAnalysisResult) Labels() []models.SignalLabel {
	labels := make([]models.SignalLabel, 0, len(r.Indicators))
	for _, name := range r.indicatorNames() {
		labels = append(labels, r.Indicators[name].Snapshot.Signal)
	}

	return labels
}

func (r *TechnicalAnalysisResult) String() string {
	display := &strings.Builder{}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Indicator", "Signal", "Win Rate", "Trades", "Total Return", "Buy & Hold", "Sharpe"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for _, name := range r.indicatorNames() {
		res := r.Indicators[name]
		bt := res.Backtest.ConvertToDTO()

		table.Append([]string{
			name,
			string(res.Snapshot.Signal),
			fmt.Sprintf("%.1f%%", bt.WinRatePct),
			fmt.Sprintf("%d", bt.NTrades),
			fmt.Sprintf("%+.1f%%", bt.TotalReturnPct),
			fmt.Sprintf("%+.1f%%", bt.BuyHoldPct),
			fmt.Sprintf("%.2f", bt.Sharpe),
		})
	}

	table.Render()
	return display.String()
}

// TechnicalAnalysis backtests every indicator against the price history and
// majority-votes their present-day signals into the technical category. Each
// indicator runs on its own goroutine; none of them share mutable state.
func TechnicalAnalysis(ctx context.Context, ticker string, candles models.Candles, commissionRate float64, generators []indicators.SignalGenerator) (*TechnicalAnalysisResult, error) {
	tracer := otel.GetTracerProvider().Tracer("services")
	ctx, span := tracer.Start(ctx, "TechnicalAnalysis")
	defer span.End()

	logger := log.WithContext(ctx)

	if len(candles) < 2 {
		return nil, fmt.Errorf("TechnicalAnalysis: %d candles for %s: %w", len(candles), ticker, models.InsufficientDataErr)
	}

	if err := candles.Validate(); err != nil {
		return nil, fmt.Errorf("TechnicalAnalysis: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]IndicatorResult)
	errCh := make(chan error, len(generators))

	for _, gen := range generators {
		wg.Add(1)

		go func(gen indicators.SignalGenerator) {
			defer wg.Done()

			snapshot, err := gen.Current(candles)
			if err != nil {
				errCh <- fmt.Errorf("TechnicalAnalysis: %s current signal: %w", gen.Name(), err)
				return
			}

			actions, err := gen.Signals(candles)
			if err != nil {
				errCh <- fmt.Errorf("TechnicalAnalysis: %s signal stream: %w", gen.Name(), err)
				return
			}

			backtest, err := engine.Run(ticker, gen.Name(), candles, actions, commissionRate)
			if err != nil {
				errCh <- fmt.Errorf("TechnicalAnalysis: %s backtest: %w", gen.Name(), err)
				return
			}

			mu.Lock()
			results[gen.Name()] = IndicatorResult{
				Name:     gen.Name(),
				Snapshot: snapshot,
				Backtest: backtest,
			}
			mu.Unlock()
		}(gen)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		return nil, err
	}

	result := &TechnicalAnalysisResult{
		Ticker:     ticker,
		Price:      candles.LastClose(),
		AsOf:       candles.LastDate().Format("2006-01-02"),
		Indicators: results,
	}

	rollUp := engine.RollUpIndicators(result.Labels())
	result.Overall = rollUp.Signal
	result.Votes = engine.CountVotes(result.Labels())

	logger.Infof("technical analysis for %s: %d indicators, overall %s (buy %d / sell %d / hold %d)",
		ticker, len(results), result.Overall, result.Votes.Buy, result.Votes.Sell, result.Votes.Hold)

	return result, nil
}

// FullAnalysisRequest carries the three category inputs. Fundamental and
// valuation arrive pre-scored from external collaborators and may be nil, in
// which case they contribute a neutral score.
type FullAnalysisRequest struct {
	Ticker      string
	Technical   *TechnicalAnalysisResult
	Fundamental *models.FundamentalResult
	Valuation   *models.ValuationResult
	Weights     models.CategoryWeights
}

// FullAnalysis aggregates the three categories into the final verdict DTO
// consumed by the presentation layer.
func FullAnalysis(ctx context.Context, req FullAnalysisRequest) (*models.VerdictDTO, error) {
	tracer := otel.GetTracerProvider().Tracer("services")
	ctx, span := tracer.Start(ctx, "FullAnalysis")
	defer span.End()

	logger := log.WithContext(ctx)

	if req.Technical == nil {
		return nil, fmt.Errorf("FullAnalysis: missing technical analysis for %s: %w", req.Ticker, models.InsufficientDataErr)
	}

	technical := engine.RollUpIndicators(req.Technical.Labels())

	fundamentalLabel := models.SignalLabelNeutral
	if req.Fundamental != nil {
		fundamentalLabel = req.Fundamental.Overall
	}
	fundamental := models.NewCategoryScore(models.CategoryFundamental, fundamentalLabel)

	valuationLabel := models.SignalLabelNeutral
	if req.Valuation != nil {
		valuationLabel = req.Valuation.Overall
	}
	valuation := models.NewCategoryScore(models.CategoryValuation, valuationLabel)

	verdict, err := engine.Aggregate(technical, fundamental, valuation, req.Weights)
	if err != nil {
		return nil, fmt.Errorf("FullAnalysis: %w", err)
	}

	dto := verdict.ConvertToDTO()
	dto.Ticker = req.Ticker
	dto.Price = req.Technical.Price
	dto.AsOf = req.Technical.AsOf
	dto.AgentSignals = buildAgentSignals(req, technical)
	dto.IndicatorBreakdown = buildIndicatorBreakdown(req)

	logger.Infof("verdict for %s: %s (confidence %d%%, weighted score %.3f)",
		req.Ticker, dto.AiVerdict, dto.AiConfidence, verdict.CompositeScore)

	return dto, nil
}

func buildAgentSignals(req FullAnalysisRequest, technical models.CategoryScore) map[models.CategoryType]models.AgentSignalDTO {
	votes := req.Technical.Votes

	agentSignals := map[models.CategoryType]models.AgentSignalDTO{
		models.CategoryTechnical: {
			Signal:      technical.Signal,
			VoteSummary: &votes,
		},
	}

	fundamentalSignal := models.AgentSignalDTO{Signal: models.SignalLabelNeutral}
	if req.Fundamental != nil {
		fundamentalSignal.Signal = req.Fundamental.Overall
	}
	agentSignals[models.CategoryFundamental] = fundamentalSignal

	valuationSignal := models.AgentSignalDTO{Signal: models.SignalLabelNeutral}
	if req.Valuation != nil {
		valuationSignal.Signal = req.Valuation.Overall
		gap := req.Valuation.WeightedGapPct
		valuationSignal.GapPct = &gap
	}
	agentSignals[models.CategoryValuation] = valuationSignal

	return agentSignals
}

// buildIndicatorBreakdown flattens every per-indicator, per-section and
// per-method signal into the dashboard map rendered downstream.
func buildIndicatorBreakdown(req FullAnalysisRequest) map[string]models.IndicatorBreakdownEntryDTO {
	titleCaser := cases.Title(language.English)
	breakdown := make(map[string]models.IndicatorBreakdownEntryDTO)

	for name, res := range req.Technical.Indicators {
		winRate := res.Backtest.ConvertToDTO().WinRatePct
		nTrades := res.Backtest.NTrades

		entry := models.IndicatorBreakdownEntryDTO{
			Signal:             res.Snapshot.Signal,
			BacktestWinRatePct: &winRate,
			BacktestTrades:     &nTrades,
		}

		if gap, ok := res.Snapshot.Fields["gap_%"]; ok {
			gapCopy := gap
			entry.GapPct = &gapCopy
		}

		breakdown[name] = entry
	}

	if req.Fundamental != nil {
		for section, data := range req.Fundamental.Sections {
			key := fmt.Sprintf("Fundamental: %s", titleCaser.String(section))
			breakdown[key] = models.IndicatorBreakdownEntryDTO{Signal: data.Signal}
		}
	}

	if req.Valuation != nil {
		for method, data := range req.Valuation.Methods {
			key := fmt.Sprintf("Valuation: %s", titleCaser.String(strings.ReplaceAll(method, "_", " ")))
			breakdown[key] = models.IndicatorBreakdownEntryDTO{
				Signal: data.Signal,
				GapPct: data.GapPct,
			}
		}
	}

	return breakdown
}
