package models

import "time"

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Summary Summary        `json:"summary"`
	Trades  []TradeRow     `json:"trades,omitempty"`
	Report  string         `json:"report,omitempty"`
	Params  ResolvedParams `json:"params"`
}

// ResolvedParams echoes the parameters actually used, after defaults and
// the buy ceiling were applied.
type ResolvedParams struct {
	GridSize    float64 `json:"grid_size"`
	InitialCash float64 `json:"initial_cash"`
	TradeAmount float64 `json:"trade_amount"`
	BuyCeiling  float64 `json:"buy_ceiling,omitempty"`
	Period      string  `json:"period"`
}

// Summary contains aggregated simulation results. Money is rounded to cents.
type Summary struct {
	FinalCashBalance    float64    `json:"final_cash_balance"`
	FinalHoldingsUnits  float64    `json:"final_holdings_units"`
	FinalHoldingsValue  float64    `json:"final_holdings_value"`
	TotalValue          float64    `json:"total_value"`
	TotalRealizedProfit float64    `json:"total_realized_profit"`
	LastPrice           float64    `json:"last_price"`
	ClosedTrades        int        `json:"closed_trades"`
	OpenPositions       int        `json:"open_positions"`
	SkippedBuys         int        `json:"skipped_buys"`
	Points              int        `json:"points"`
	Window              TimeWindow `json:"window"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TradeRow is one lot, closed or still open.
type TradeRow struct {
	BuyTime   time.Time  `json:"buy_time"`
	BuyPrice  float64    `json:"buy_price"`
	SellTime  *time.Time `json:"sell_time,omitempty"`
	SellPrice float64    `json:"sell_price,omitempty"`
	Amount    float64    `json:"amount"`
	Units     float64    `json:"units"`
	Profit    float64    `json:"profit"`
	Status    string     `json:"status"`
}

// SweepResponse lists variations ranked by total value, best first.
type SweepResponse struct {
	ID      string        `json:"id"`
	Results []SweepResult `json:"results"`
}

type SweepResult struct {
	Rank    int            `json:"rank"`
	Name    string         `json:"name"`
	Params  ResolvedParams `json:"params"`
	Summary Summary        `json:"summary"`
}

// PeriodInfo describes a supported lookback period
type PeriodInfo struct {
	ID   string `json:"id"`
	Code int    `json:"code"`
	Days int    `json:"days,omitempty"`
}

// FundInfo represents one entry of the configured fund list
type FundInfo struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// PresetInfo represents a strategy preset file
type PresetInfo struct {
	ID       string        `json:"id"`
	Strategy StrategyInput `json:"strategy"`
}

// StatsResponse summarizes the price distribution of a fund over a period
type StatsResponse struct {
	FundCode string     `json:"fund_code"`
	Period   string     `json:"period"`
	Count    int        `json:"count"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Mean     float64    `json:"mean"`
	P30      float64    `json:"p30"`
	P70      float64    `json:"p70"`
	Window   TimeWindow `json:"window"`
}
