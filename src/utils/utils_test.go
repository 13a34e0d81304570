package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-advisor/src/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestSortCandles(t *testing.T) {
	t.Run("sorts ascending and removes duplicates", func(t *testing.T) {
		candles := models.Candles{
			models.NewCandle(day(3), 103, 103, 103, 103),
			models.NewCandle(day(1), 101, 101, 101, 101),
			models.NewCandle(day(3), 113, 113, 113, 113),
			models.NewCandle(day(2), 102, 102, 102, 102),
		}

		sorted := SortCandles(candles)

		require.Len(t, sorted, 3)
		assert.Equal(t, day(1), sorted[0].Date)
		assert.Equal(t, day(2), sorted[1].Date)
		assert.Equal(t, day(3), sorted[2].Date)
		assert.NoError(t, sorted.Validate())
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		candles := models.Candles{
			models.NewCandle(day(2), 102, 102, 102, 102),
			models.NewCandle(day(1), 101, 101, 101, 101),
		}
		original := append(models.Candles{}, candles...)

		SortCandles(candles)

		assert.Equal(t, original, candles)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SortCandles(nil))
	})
}

func TestImportCandlesFromCsv(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prices.csv")

	content := "date,open,high,low,close\n" +
		"2024-01-01,100,105,99,102\n" +
		"2024-01-02,102,108,101,107\n"
	require.NoError(t, os.WriteFile(inPath, []byte(content), 0644))

	candles, err := ImportCandlesFromCsv(inPath)
	require.NoError(t, err)

	require.Len(t, candles, 2)
	assert.Equal(t, day(1), candles[0].Date)
	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 102.0, candles[0].Close)
	assert.Equal(t, 107.0, candles[1].Close)
}

func TestImportCandlesFromCsvBadDate(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prices.csv")

	content := "date,open,high,low,close\n" +
		"01/02/2024,100,105,99,102\n"
	require.NoError(t, os.WriteFile(inPath, []byte(content), 0644))

	_, err := ImportCandlesFromCsv(inPath)
	assert.Error(t, err)
}

func TestExportTradesToCsv(t *testing.T) {
	outDir := t.TempDir()

	trades := models.Trades{
		{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte("t1")),
			EntryIndex: 1,
			ExitIndex:  3,
			EntryDate:  day(2),
			ExitDate:   day(4),
			EntryPrice: 99.099,
			ExitPrice:  104.895,
			PctReturn:  5.85,
			HoldDays:   2,
			ExitReason: models.ExitReasonSignal,
		},
	}

	outFile, err := ExportTradesToCsv(trades, outDir, "aapl-rsi-14")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "trades-aapl-rsi-14.csv"), outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	assert.Contains(t, string(data), "entry_date")
	assert.Contains(t, string(data), "2024-01-02")
	assert.Contains(t, string(data), "signal")
}
