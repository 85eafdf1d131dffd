package model

import "time"

// PricePoint is one (timestamp, price) observation of a fund's net worth.
// Timestamp is Unix seconds; Price is always > 0 once normalized.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

func (p PricePoint) Time() time.Time {
	return time.Unix(p.Timestamp, 0)
}
