package models

import (
	"fmt"
	"time"
)

// Candle is one daily OHLC bar. Immutable once loaded.
type Candle struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func NewCandle(date time.Time, open, high, low, close float64) Candle {
	return Candle{
		Date:  date,
		Open:  open,
		High:  high,
		Low:   low,
		Close: close,
	}
}

type Candles []Candle

// Validate checks that the series is strictly ascending by date.
func (c Candles) Validate() error {
	for i := 1; i < len(c); i++ {
		if c[i].Date.Equal(c[i-1].Date) {
			return fmt.Errorf("Candles.Validate: %v: %w", c[i].Date.Format(time.DateOnly), DuplicateCandleErr)
		}

		if c[i].Date.Before(c[i-1].Date) {
			return fmt.Errorf("Candles.Validate: %v follows %v: %w", c[i].Date.Format(time.DateOnly), c[i-1].Date.Format(time.DateOnly), CandlesNotSortedErr)
		}
	}

	return nil
}

func (c Candles) Closes() []float64 {
	closes := make([]float64, len(c))
	for i, candle := range c {
		closes[i] = candle.Close
	}

	return closes
}

func (c Candles) LastClose() float64 {
	if len(c) == 0 {
		return 0
	}

	return c[len(c)-1].Close
}

func (c Candles) LastDate() time.Time {
	if len(c) == 0 {
		return time.Time{}
	}

	return c[len(c)-1].Date
}
