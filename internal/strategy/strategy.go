package strategy

import "grid-backtest/internal/model"

// Context is what a strategy sees at one step of the walk.
type Context struct {
	Point     model.PricePoint
	BasePrice float64
}

// Signal is the action a strategy requests for a step.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

type Strategy interface {
	Name() string
	Decide(ctx Context) Signal
	// ShouldClose reports whether an open lot has reached its take-profit level at price.
	ShouldClose(lot model.OpenPosition, price float64) bool
}

// Factory builds the strategy for one run from that run's parameters.
type Factory func(params model.StrategyParams) Strategy

// Grid is the default Factory.
func Grid(params model.StrategyParams) Strategy {
	return NewGridStrategy(params)
}
