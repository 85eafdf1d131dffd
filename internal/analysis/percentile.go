package analysis

import (
	"fmt"
	"math"
	"sort"

	"grid-backtest/internal/model"
)

// PriceStats is a summary of a price series, used to pick grid parameters
// and a buy ceiling.
type PriceStats struct {
	Count int

	Min  float64
	Max  float64
	Mean float64
	P30  float64
	P70  float64
}

func ComputeStats(points []model.PricePoint) PriceStats {
	s := PriceStats{}
	if len(points) == 0 {
		return s
	}
	vals := sortedPrices(points)
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	s.Count = len(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Mean = sum / float64(len(vals))
	s.P30 = Percentile(vals, 0.30)
	s.P70 = Percentile(vals, 0.70)
	return s
}

// BuyCeiling is the nearest-rank q-quantile of every price in the series: the
// value at sorted index int(n*q)-1, clamped to the series. Buys at or above it
// are ignored when it is set on model.StrategyParams.
func BuyCeiling(points []model.PricePoint, q float64) (float64, error) {
	if len(points) == 0 {
		return 0, model.ErrEmptySeries
	}
	if !(q > 0 && q <= 1) {
		return 0, fmt.Errorf("%w: buy ceiling percentile must be in (0, 1]", model.ErrInvalidParams)
	}
	return nearestRank(sortedPrices(points), q), nil
}

func nearestRank(sorted []float64, q float64) float64 {
	idx := int(float64(len(sorted))*q) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}

// Percentile expects sorted input and interpolates linearly between order stats.
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func sortedPrices(points []model.PricePoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Price
	}
	sort.Float64s(vals)
	return vals
}
