package models

// SimulateRequest represents the request body for running a grid simulation.
// Exactly one of FundCode and Points must be provided.
type SimulateRequest struct {
	FundCode string          `json:"fund_code,omitempty"`
	Points   []PointInput    `json:"points,omitempty"`
	Preset   string          `json:"preset,omitempty"` // strategy preset ID, e.g. "conservative"; Strategy overrides it
	Strategy StrategyInput   `json:"strategy"`
	Period   string          `json:"period,omitempty"` // "3m", "6m", "1y", "3y", "5y", "all" or 0-5; default "all"
	Options  SimulateOptions `json:"options,omitempty"`
}

// PointInput is one (timestamp, price) sample; Timestamp is Unix seconds.
type PointInput struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// StrategyInput holds the grid parameters. Zero fields fall back to defaults.
type StrategyInput struct {
	GridSize    float64 `json:"grid_size,omitempty"`
	InitialCash float64 `json:"initial_cash,omitempty"`
	TradeAmount float64 `json:"trade_amount,omitempty"`
	// BuyCeilingPercentile skips buys at or above this quantile of the full series; 0 disables.
	BuyCeilingPercentile float64 `json:"buy_ceiling_percentile,omitempty"`
}

type SimulateOptions struct {
	IncludeTrades bool `json:"include_trades,omitempty"`
	IncludeReport bool `json:"include_report,omitempty"`
}

// SweepRequest runs several strategy variations against one series.
type SweepRequest struct {
	FundCode   string           `json:"fund_code,omitempty"`
	Points     []PointInput     `json:"points,omitempty"`
	Period     string           `json:"period,omitempty"`
	Preset     string           `json:"preset,omitempty"`
	Base       StrategyInput    `json:"base"`
	Variations []StrategyChange `json:"variations" binding:"required,min=1"`
}

// StrategyChange defines a variation to test; non-zero fields override Base.
type StrategyChange struct {
	Name     string        `json:"name" binding:"required"`
	Strategy StrategyInput `json:"strategy"`
}
