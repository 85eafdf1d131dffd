package series

import (
	"math"

	"grid-backtest/internal/model"
)

// RawPoint is an unvalidated observation as yielded by a data source.
type RawPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// Normalize validates a raw ordered series into the canonical simulator input.
// It never reorders: a timestamp lower than its predecessor fails with
// model.ErrUnsortedSeries. Equal timestamps are allowed and keep input order.
func Normalize(raw []RawPoint) ([]model.PricePoint, error) {
	if len(raw) == 0 {
		return nil, model.ErrEmptySeries
	}
	out := make([]model.PricePoint, 0, len(raw))
	for i, r := range raw {
		if !(r.Price > 0) || math.IsInf(r.Price, 1) {
			return nil, &model.SeriesError{Err: model.ErrInvalidPrice, Index: i, Timestamp: r.Timestamp, Price: r.Price}
		}
		if i > 0 && r.Timestamp < raw[i-1].Timestamp {
			return nil, &model.SeriesError{Err: model.ErrUnsortedSeries, Index: i, Timestamp: r.Timestamp, Price: r.Price}
		}
		out = append(out, model.PricePoint{Timestamp: r.Timestamp, Price: r.Price})
	}
	return out, nil
}
