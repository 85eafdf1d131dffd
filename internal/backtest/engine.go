package backtest

import (
	"grid-backtest/internal/model"
	"grid-backtest/internal/strategy"

	"go.uber.org/zap"
)

type Engine struct {
	logger   *zap.Logger
	strategy strategy.Factory
}

type Option func(*Engine)

// WithLogger makes the engine log every executed trade at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrategy replaces the grid strategy. The engine still owns cash, lots and
// the base price; the strategy only decides and picks which lots close.
func WithStrategy(f strategy.Factory) Option {
	return func(e *Engine) {
		if f != nil {
			e.strategy = f
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop(), strategy: strategy.Grid}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runState is everything carried across the walk. It is owned by a single Run call.
type runState struct {
	cash        float64
	basePrice   float64
	open        []model.OpenPosition
	closed      []model.ClosedTrade
	totalProfit float64
	buySpend    float64
	proceeds    float64
	skipped     int
}

// Run walks a normalized series once and returns the outcome of the engine's strategy.
// It only fails on input that the normalizer or params validation would reject.
func (e *Engine) Run(points []model.PricePoint, params model.StrategyParams) (*model.SimulationResult, error) {
	if len(points) == 0 {
		return nil, model.ErrEmptySeries
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	strat := e.strategy(params)
	st := &runState{
		cash:      params.InitialCash,
		basePrice: points[0].Price,
	}

	for _, pt := range points {
		switch strat.Decide(strategy.Context{Point: pt, BasePrice: st.basePrice}) {
		case strategy.Buy:
			e.buy(st, pt, params)
		case strategy.Sell:
			e.sell(st, pt, params, strat)
		}
	}

	units := 0.0
	for _, lot := range st.open {
		units += lot.Units()
	}
	last := points[len(points)-1]

	res := &model.SimulationResult{
		FinalCashBalance:    st.cash,
		FinalHoldingsUnits:  units,
		TotalRealizedProfit: st.totalProfit,
		ClosedTrades:        st.closed,
		OpenPositions:       st.open,
		LastPrice:           last.Price,
		BuySpend:            st.buySpend,
		SellProceeds:        st.proceeds,
		SkippedBuys:         st.skipped,
		Start:               points[0].Timestamp,
		End:                 last.Timestamp,
		Points:              len(points),
	}
	if res.ClosedTrades == nil {
		res.ClosedTrades = []model.ClosedTrade{}
	}
	if res.OpenPositions == nil {
		res.OpenPositions = []model.OpenPosition{}
	}

	e.logger.Debug("run finished",
		zap.String("strategy", strat.Name()),
		zap.Float64("cash", res.FinalCashBalance),
		zap.Float64("profit", res.TotalRealizedProfit),
		zap.Int("closed", len(res.ClosedTrades)),
		zap.Int("open", len(res.OpenPositions)),
		zap.Int("skipped_buys", res.SkippedBuys),
	)
	return res, nil
}

// buy opens a lot, or skips without rebasing when cash cannot cover the trade
// so that a deeper drop is still measured against the old base.
func (e *Engine) buy(st *runState, pt model.PricePoint, params model.StrategyParams) {
	if st.cash < params.TradeAmount {
		st.skipped++
		e.logger.Debug("not enough cash for buy",
			zap.Int64("ts", pt.Timestamp),
			zap.Float64("price", pt.Price),
			zap.Float64("cash", st.cash))
		return
	}
	st.open = append(st.open, model.OpenPosition{
		BuyTimestamp: pt.Timestamp,
		BuyPrice:     pt.Price,
		Amount:       params.TradeAmount,
	})
	st.cash -= params.TradeAmount
	st.buySpend += params.TradeAmount
	st.basePrice = pt.Price

	e.logger.Debug("trade",
		zap.String("side", string(model.SideBuy)),
		zap.Int64("ts", pt.Timestamp),
		zap.Float64("price", pt.Price),
		zap.Float64("cash", st.cash))
}

// sell closes lots from the top of the stack while each has reached its own
// take-profit level, then rebases on the sell price even if nothing closed.
func (e *Engine) sell(st *runState, pt model.PricePoint, params model.StrategyParams, strat strategy.Strategy) {
	for len(st.open) > 0 {
		lot := st.open[len(st.open)-1]
		if !strat.ShouldClose(lot, pt.Price) {
			break
		}
		st.open = st.open[:len(st.open)-1]

		trade := model.ClosedTrade{
			BuyTimestamp:  lot.BuyTimestamp,
			BuyPrice:      lot.BuyPrice,
			SellTimestamp: pt.Timestamp,
			SellPrice:     pt.Price,
			Amount:        params.TradeAmount,
		}
		proceeds := trade.Proceeds()
		st.totalProfit += proceeds - params.TradeAmount
		st.cash += proceeds
		st.proceeds += proceeds
		st.closed = append(st.closed, trade)

		e.logger.Debug("trade",
			zap.String("side", string(model.SideSell)),
			zap.Int64("ts", pt.Timestamp),
			zap.Float64("price", pt.Price),
			zap.Float64("buy_price", lot.BuyPrice),
			zap.Float64("profit", proceeds-params.TradeAmount))
	}
	st.basePrice = pt.Price
}
