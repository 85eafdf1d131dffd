// Package report renders a simulation result as human-readable text.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"grid-backtest/internal/model"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	rule       = "----------------------------------------------------------"
	banner     = "============================ Trades ============================"
)

// Formatter renders reports. Dates are shown in Location; nil means time.Local.
type Formatter struct {
	Location *time.Location
	// Title is an optional first line, e.g. the fund code and period.
	Title string
}

// Format renders res with the default formatter.
func Format(res *model.SimulationResult, params model.StrategyParams) string {
	return Formatter{}.Format(res, params)
}

func (f Formatter) Format(res *model.SimulationResult, params model.StrategyParams) string {
	var b strings.Builder
	_ = f.Write(&b, res, params)
	return b.String()
}

// Write prints the summary followed by every lot in buy-time order.
// Closed lots show both legs, open lots only the buy leg.
func (f Formatter) Write(w io.Writer, res *model.SimulationResult, params model.StrategyParams) error {
	ew := &errWriter{w: w}

	if f.Title != "" {
		ew.printf("%s\n", f.Title)
	}
	ew.printf("SUM: %s, Amount: %s, Grid Size: %s\n",
		Money(params.InitialCash), Money(params.TradeAmount), num(params.GridSize))
	if params.BuyCeiling > 0 {
		ew.printf("Buy Ceiling: %s\n", num(params.BuyCeiling))
	}
	ew.printf("Period: %s to %s (%d points)\n", f.date(res.Start), f.date(res.End), res.Points)
	ew.printf("Holdings Value: %s (holds %s at price %s)\n",
		Money(res.FinalHoldingsValue()), Money(res.FinalHoldingsUnits), num(res.LastPrice))
	ew.printf("Balance: %s\n", Money(res.FinalCashBalance))
	ew.printf("Total Value: %s\n", Money(res.TotalValue()))
	ew.printf("Total Profit: %s\n", Money(res.TotalRealizedProfit))
	ew.printf("Trades: %d completed, %d open\n", len(res.ClosedTrades), len(res.OpenPositions))
	if res.SkippedBuys > 0 {
		ew.printf("Skipped Buys (not enough cash): %d\n", res.SkippedBuys)
	}
	ew.printf("%s\n", banner)

	for _, lot := range res.Lots() {
		ew.printf("Buy: %s at %s\n", f.date(lot.BuyTimestamp), num(lot.BuyPrice))
		if lot.Status == model.LotClosed {
			ew.printf("Sell: %s at %s (profit %s)\n", f.date(lot.SellTimestamp), num(lot.SellPrice), Money(lot.Profit()))
		}
		ew.printf("%s\n", rule)
	}
	return ew.err
}

func (f Formatter) date(ts int64) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(ts, 0).In(loc).Format(dateLayout)
}

// Money rounds a currency figure to 2 decimal places.
func Money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

// RoundMoney is Money as a float, for JSON responses.
func RoundMoney(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

func num(x float64) string {
	return decimal.NewFromFloat(x).String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
