package strategy

import "grid-backtest/internal/model"

// GridStrategy buys when price falls GridSize below the base price and sells
// when it rises GridSize above it. The base price is owned by the caller and
// follows the last executed trade.
//
// Triggers are inclusive: p <= base*(1-g) buys, p >= base*(1+g) sells, and the
// buy test wins if both could hold.
type GridStrategy struct {
	Params model.StrategyParams
}

func NewGridStrategy(params model.StrategyParams) *GridStrategy {
	return &GridStrategy{Params: params}
}

func (s *GridStrategy) Name() string { return "grid" }

func (s *GridStrategy) Decide(ctx Context) Signal {
	p := ctx.Point.Price
	switch {
	case p <= s.Params.BuyTrigger(ctx.BasePrice):
		if s.Params.BuyCeiling > 0 && p >= s.Params.BuyCeiling {
			return Hold
		}
		return Buy
	case p >= s.Params.SellTrigger(ctx.BasePrice):
		return Sell
	default:
		return Hold
	}
}

func (s *GridStrategy) ShouldClose(lot model.OpenPosition, price float64) bool {
	return s.Params.SellTrigger(lot.BuyPrice) <= price
}
