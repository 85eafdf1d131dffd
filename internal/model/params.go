package model

import (
	"fmt"
	"math"
)

// StrategyParams defines the fixed inputs of one grid simulation run.
// Units:
// - InitialCash, TradeAmount: currency
// - GridSize: fraction in (0, 1), e.g. 0.05 for a 5% grid
// - BuyCeiling: price; buys at or above it are ignored. 0 disables the filter.
type StrategyParams struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
	TradeAmount float64 `json:"trade_amount" yaml:"trade_amount"`
	GridSize    float64 `json:"grid_size" yaml:"grid_size"`
	BuyCeiling  float64 `json:"buy_ceiling,omitempty" yaml:"buy_ceiling,omitempty"`
}

func (p StrategyParams) Validate() error {
	if !(p.InitialCash > 0) || math.IsInf(p.InitialCash, 0) {
		return fmt.Errorf("%w: initial_cash must be > 0", ErrInvalidParams)
	}
	if !(p.TradeAmount > 0) || math.IsInf(p.TradeAmount, 0) {
		return fmt.Errorf("%w: trade_amount must be > 0", ErrInvalidParams)
	}
	if !(p.GridSize > 0 && p.GridSize < 1) {
		return fmt.Errorf("%w: grid_size must be in (0, 1)", ErrInvalidParams)
	}
	if p.BuyCeiling < 0 || math.IsNaN(p.BuyCeiling) {
		return fmt.Errorf("%w: buy_ceiling must be >= 0", ErrInvalidParams)
	}
	return nil
}

// BuyTrigger is the price at or below which a buy is attempted.
func (p StrategyParams) BuyTrigger(base float64) float64 {
	return base * (1 - p.GridSize)
}

// SellTrigger is the price at or above which a sell is attempted.
// The same threshold applied to a lot's buy price is that lot's take-profit level.
func (p StrategyParams) SellTrigger(base float64) float64 {
	return base * (1 + p.GridSize)
}
