package utils

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"stock-advisor/src/models"
)

type candleCsvDTO struct {
	Date  string  `csv:"date"`
	Open  float64 `csv:"open"`
	High  float64 `csv:"high"`
	Low   float64 `csv:"low"`
	Close float64 `csv:"close"`
}

type tradeCsvDTO struct {
	EntryDate  string  `csv:"entry_date"`
	ExitDate   string  `csv:"exit_date"`
	EntryPrice float64 `csv:"entry_price"`
	ExitPrice  float64 `csv:"exit_price"`
	PctReturn  float64 `csv:"pct_return"`
	HoldDays   int     `csv:"hold_days"`
	ExitReason string  `csv:"exit_reason"`
}

// ImportCandlesFromCsv reads a daily OHLC file with date,open,high,low,close
// headers and ISO dates.
func ImportCandlesFromCsv(inPath string) (models.Candles, error) {
	file, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("ImportCandlesFromCsv: error opening CSV file: %v", err)
	}

	defer file.Close()

	var dtos []*candleCsvDTO
	if err := gocsv.UnmarshalFile(file, &dtos); err != nil {
		return nil, fmt.Errorf("ImportCandlesFromCsv: error unmarshaling CSV file: %v", err)
	}

	candles := make(models.Candles, 0, len(dtos))
	for _, dto := range dtos {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			return nil, fmt.Errorf("ImportCandlesFromCsv: error parsing date %s: %v", dto.Date, err)
		}

		candles = append(candles, models.NewCandle(date, dto.Open, dto.High, dto.Low, dto.Close))
	}

	log.Infof("Imported %d candles from %s", len(candles), inPath)

	return candles, nil
}

// ExportTradesToCsv writes one strategy's trade log to outDir and returns the
// file path.
func ExportTradesToCsv(trades models.Trades, outDir string, fname string) (string, error) {
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		os.Mkdir(outDir, 0755)
	}

	outFile := path.Join(outDir, fmt.Sprintf("trades-%s.csv", fname))

	file, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("ExportTradesToCsv: error creating CSV file: %v", err)
	}

	defer file.Close()

	dtos := make([]*tradeCsvDTO, 0, len(trades))
	for _, tr := range trades {
		dtos = append(dtos, &tradeCsvDTO{
			EntryDate:  tr.EntryDate.Format(time.DateOnly),
			ExitDate:   tr.ExitDate.Format(time.DateOnly),
			EntryPrice: tr.EntryPrice,
			ExitPrice:  tr.ExitPrice,
			PctReturn:  tr.PctReturn,
			HoldDays:   tr.HoldDays,
			ExitReason: tr.ExitReason,
		})
	}

	if err := gocsv.MarshalFile(&dtos, file); err != nil {
		return "", fmt.Errorf("ExportTradesToCsv: error marshaling CSV file: %v", err)
	}

	log.Infof("Exported %d trades to %s", len(trades), outFile)

	return outFile, nil
}
