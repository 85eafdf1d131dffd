package model

// OpenPosition is a single buy lot not yet closed.
type OpenPosition struct {
	BuyTimestamp int64   `json:"buy_timestamp"`
	BuyPrice     float64 `json:"buy_price"`
	Amount       float64 `json:"amount"`
}

// Units is the quantity of the asset the lot holds.
func (p OpenPosition) Units() float64 {
	return p.Amount / p.BuyPrice
}

// ClosedTrade is an OpenPosition matched against a sell event. Immutable once created.
type ClosedTrade struct {
	BuyTimestamp  int64   `json:"buy_timestamp"`
	BuyPrice      float64 `json:"buy_price"`
	SellTimestamp int64   `json:"sell_timestamp"`
	SellPrice     float64 `json:"sell_price"`
	Amount        float64 `json:"amount"`
}

func (t ClosedTrade) Units() float64 {
	return t.Amount / t.BuyPrice
}

// Proceeds is the cash returned when the lot is sold.
func (t ClosedTrade) Proceeds() float64 {
	return t.Units() * t.SellPrice
}

func (t ClosedTrade) Profit() float64 {
	return t.Proceeds() - t.Amount
}
