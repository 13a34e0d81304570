package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ExitReasonSignal = "signal"
	ExitReasonForced = "forced"
)

// Trade is one completed round trip produced by the backtest engine. Prices
// are net of the commission leg on their own side. Immutable once recorded.
type Trade struct {
	ID         uuid.UUID
	EntryIndex int
	ExitIndex  int
	EntryDate  time.Time
	ExitDate   time.Time
	EntryPrice float64
	ExitPrice  float64
	PctReturn  float64
	HoldDays   int
	ExitReason string
}

func (tr Trade) Win() bool {
	return tr.PctReturn > 0
}

func (tr Trade) Validate() error {
	if tr.ID == uuid.Nil {
		return NoTradeIDErr
	}

	if tr.ExitIndex <= tr.EntryIndex {
		return fmt.Errorf("Trade.Validate: entry %d, exit %d: %w", tr.EntryIndex, tr.ExitIndex, InvalidTradeWindowErr)
	}

	if tr.EntryPrice <= 0 || tr.ExitPrice <= 0 {
		return fmt.Errorf("Trade.Validate: entry %.2f, exit %.2f: %w", tr.EntryPrice, tr.ExitPrice, InvalidTradePriceErr)
	}

	return nil
}

func (tr Trade) String() string {
	return fmt.Sprintf("%s @%.2f -> %s @%.2f (%+.2f%%)", tr.EntryDate.Format(time.DateOnly), tr.EntryPrice, tr.ExitDate.Format(time.DateOnly), tr.ExitPrice, tr.PctReturn)
}

type Trades []Trade

func (trs Trades) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Entry", "Exit", "Entry Price", "Exit Price", "Return", "Held"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for _, tr := range trs {
		table.Append([]string{
			tr.EntryDate.Format(time.DateOnly),
			tr.ExitDate.Format(time.DateOnly),
			fmt.Sprintf("$%s", p.Sprintf("%.2f", tr.EntryPrice)),
			fmt.Sprintf("$%s", p.Sprintf("%.2f", tr.ExitPrice)),
			fmt.Sprintf("%+.2f%%", tr.PctReturn),
			fmt.Sprintf("%dd", tr.HoldDays),
		})
	}

	table.Render()
	return display.String()
}
