package model

import "sort"

// SimulationResult is produced once at the end of a run and never mutated afterwards.
type SimulationResult struct {
	FinalCashBalance    float64
	FinalHoldingsUnits  float64
	TotalRealizedProfit float64

	// ClosedTrades are in the order they were closed.
	ClosedTrades []ClosedTrade
	// OpenPositions are bottom-of-stack first.
	OpenPositions []OpenPosition

	LastPrice float64
	// BuySpend and SellProceeds are the gross cash flows of the run.
	BuySpend     float64
	SellProceeds float64
	// SkippedBuys counts buy triggers that could not be funded.
	SkippedBuys int

	Start  int64
	End    int64
	Points int
}

// FinalHoldingsValue marks the open lots to the last observed price.
func (r *SimulationResult) FinalHoldingsValue() float64 {
	return r.FinalHoldingsUnits * r.LastPrice
}

// TotalValue is cash plus holdings at the last price.
func (r *SimulationResult) TotalValue() float64 {
	return r.FinalCashBalance + r.FinalHoldingsValue()
}

// LotEntry is one row of a chronological trade listing. SellTimestamp is zero for open lots.
type LotEntry struct {
	BuyTimestamp  int64
	BuyPrice      float64
	SellTimestamp int64
	SellPrice     float64
	Amount        float64
	Status        LotStatus
}

func (e LotEntry) Units() float64 { return e.Amount / e.BuyPrice }

// Profit is the realized profit of a closed lot; 0 for open lots.
func (e LotEntry) Profit() float64 {
	if e.Status != LotClosed {
		return 0
	}
	return e.Units()*e.SellPrice - e.Amount
}

// Lots merges open and closed lots and sorts them by buy timestamp ascending.
// Ties keep open lots before closed ones, each group in input order.
func (r *SimulationResult) Lots() []LotEntry {
	out := make([]LotEntry, 0, len(r.OpenPositions)+len(r.ClosedTrades))
	for _, p := range r.OpenPositions {
		out = append(out, LotEntry{
			BuyTimestamp: p.BuyTimestamp,
			BuyPrice:     p.BuyPrice,
			Amount:       p.Amount,
			Status:       LotOpen,
		})
	}
	for _, t := range r.ClosedTrades {
		out = append(out, LotEntry{
			BuyTimestamp:  t.BuyTimestamp,
			BuyPrice:      t.BuyPrice,
			SellTimestamp: t.SellTimestamp,
			SellPrice:     t.SellPrice,
			Amount:        t.Amount,
			Status:        LotClosed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BuyTimestamp < out[j].BuyTimestamp
	})
	return out
}
