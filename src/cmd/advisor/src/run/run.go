package run

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"stock-advisor/src/indicators"
	"stock-advisor/src/models"
	"stock-advisor/src/services"
	"stock-advisor/src/utils"
)

type ExecParams struct {
	Ticker         string
	CsvPath        string
	CommissionRate float64
	Weights        models.CategoryWeights
	Years          int
	OutDir         string
}

func Exec(ctx context.Context, params ExecParams) (*models.VerdictDTO, error) {
	candles, err := loadCandles(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Exec: %w", err)
	}

	candles = utils.SortCandles(candles)

	technical, err := services.TechnicalAnalysis(ctx, params.Ticker, candles, params.CommissionRate, indicators.DefaultSet())
	if err != nil {
		return nil, fmt.Errorf("Exec: %w", err)
	}

	fmt.Println(technical)

	verdict, err := services.FullAnalysis(ctx, services.FullAnalysisRequest{
		Ticker:    params.Ticker,
		Technical: technical,
		Weights:   params.Weights,
	})

	if err != nil {
		return nil, fmt.Errorf("Exec: %w", err)
	}

	fmt.Printf("%s: %s (confidence %d%%)\n", verdict.Ticker, verdict.AiVerdict, verdict.AiConfidence)

	if params.OutDir != "" {
		for name, res := range technical.Indicators {
			if res.Backtest.NTrades == 0 {
				continue
			}

			fname := fmt.Sprintf("%s-%s", params.Ticker, strings.ReplaceAll(strings.ToLower(name), " ", "-"))
			if _, err := utils.ExportTradesToCsv(res.Backtest.Trades, params.OutDir, fname); err != nil {
				log.Errorf("Exec: failed to export %s trade log: %v", name, err)
			}
		}
	}

	return verdict, nil
}

func loadCandles(ctx context.Context, params ExecParams) (models.Candles, error) {
	if params.CsvPath != "" {
		return utils.ImportCandlesFromCsv(params.CsvPath)
	}

	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("loadCandles: missing POLYGON_API_KEY environment variable")
	}

	to := time.Now().UTC()
	from := to.AddDate(-params.Years, 0, 0)

	fetcher := services.NewPolygonPriceFetcher(apiKey)
	return fetcher.FetchDailyCandles(ctx, params.Ticker, from, to)
}
