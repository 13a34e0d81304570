package services

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"stock-advisor/src/models"
)

// PolygonPriceFetcher pulls adjusted daily aggregates from the polygon api.
type PolygonPriceFetcher struct {
	Client *polygon.Client
}

func NewPolygonPriceFetcher(apiKey string) *PolygonPriceFetcher {
	return &PolygonPriceFetcher{
		Client: polygon.New(apiKey),
	}
}

func (f *PolygonPriceFetcher) FetchDailyCandles(ctx context.Context, ticker string, from, to time.Time) (models.Candles, error) {
	log.Debugf("fetching daily candles from polygon for symbol %s", ticker)

	params := polygonmodels.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   polygonmodels.Day,
		From:       polygonmodels.Millis(from),
		To:         polygonmodels.Millis(to),
	}.WithOrder(polygonmodels.Asc).WithAdjusted(true)

	iter := f.Client.ListAggs(ctx, params)

	var candles models.Candles
	for iter.Next() {
		item := iter.Item()

		candles = append(candles, models.Candle{
			Date:  time.Time(item.Timestamp),
			Open:  item.Open,
			High:  item.High,
			Low:   item.Low,
			Close: item.Close,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("FetchDailyCandles: %s: %w", ticker, err)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("FetchDailyCandles: no results for %s: %w", ticker, models.InsufficientDataErr)
	}

	return candles, nil
}
