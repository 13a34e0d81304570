package utils

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"stock-advisor/src/models"
)

// maxSessionGap is the widest calendar gap between consecutive daily bars
// that doesn't warrant a warning (weekend plus a market holiday).
const maxSessionGap = 4 * 24 * time.Hour

// SortCandles removes duplicate dates, sorts the remaining bars ascending and
// warns about gaps in the data. The input slice is left untouched.
func SortCandles(candles models.Candles) models.Candles {
	byDate := map[time.Time]models.Candle{}

	// remove duplicates
	for _, candle := range candles {
		byDate[candle.Date] = candle
	}

	candlesNoDuplicates := make(models.Candles, 0, len(byDate))
	for _, candle := range byDate {
		candlesNoDuplicates = append(candlesNoDuplicates, candle)
	}

	sort.Slice(candlesNoDuplicates, func(i, j int) bool {
		return candlesNoDuplicates[i].Date.Before(candlesNoDuplicates[j].Date)
	})

	// check for gaps in the data
	for i := 0; i < len(candlesNoDuplicates)-1; i++ {
		if candlesNoDuplicates[i].Date.Add(maxSessionGap).Before(candlesNoDuplicates[i+1].Date) {
			log.Warnf("Gap in data between %v and %v", candlesNoDuplicates[i].Date.Format(time.DateOnly), candlesNoDuplicates[i+1].Date.Format(time.DateOnly))
		}
	}

	return candlesNoDuplicates
}
