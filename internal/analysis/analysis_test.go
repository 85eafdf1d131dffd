package analysis

import (
	"context"
	"testing"

	"grid-backtest/internal/backtest"
	"grid-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = model.PricePoint{Timestamp: int64(i) * 86400, Price: p}
	}
	return out
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 5.0, Percentile(sorted, 1))
	assert.Equal(t, 3.0, Percentile(sorted, 0.5))
	assert.InDelta(t, 3.8, Percentile(sorted, 0.7), 1e-12)
	assert.Zero(t, Percentile(nil, 0.5))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(pts(5, 1, 3, 2, 4))
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Mean)
	assert.InDelta(t, 2.2, s.P30, 1e-12)
	assert.InDelta(t, 3.8, s.P70, 1e-12)

	assert.Zero(t, ComputeStats(nil).Count)
}

func TestBuyCeiling(t *testing.T) {
	c, err := BuyCeiling(pts(5, 1, 3, 2, 4), 0.7)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c)

	// nearest rank, not interpolated: 7 rather than 7.3
	c, err = BuyCeiling(pts(10, 9, 8, 7, 6, 5, 4, 3, 2, 1), 0.7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, c)

	c, err = BuyCeiling(pts(4, 2, 3), 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c)

	c, err = BuyCeiling(pts(4, 2, 3), 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c)

	_, err = BuyCeiling(nil, 0.7)
	assert.ErrorIs(t, err, model.ErrEmptySeries)
	_, err = BuyCeiling(pts(1), 0)
	assert.ErrorIs(t, err, model.ErrInvalidParams)
}

func TestBuyCeilingGatesBuysLikeNearestRank(t *testing.T) {
	c, err := BuyCeiling(pts(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 0.7)
	require.NoError(t, err)

	// 7.2 is well under the buy trigger but sits above the ceiling of 7
	params := model.StrategyParams{InitialCash: 1000, TradeAmount: 100, GridSize: 0.1, BuyCeiling: c}
	res, err := backtest.New().Run(pts(10, 7.2), params)
	require.NoError(t, err)
	assert.Empty(t, res.OpenPositions)
	assert.Equal(t, 1000.0, res.FinalCashBalance)

	params.BuyCeiling = 0
	res, err = backtest.New().Run(pts(10, 7.2), params)
	require.NoError(t, err)
	assert.Len(t, res.OpenPositions, 1)
}

func TestGrid(t *testing.T) {
	base := model.StrategyParams{InitialCash: 10000, TradeAmount: 1000, GridSize: 0.05}
	vs := Grid(base, []float64{0.03, 0.05}, []float64{500, 1000, 2000})
	require.Len(t, vs, 6)
	assert.Equal(t, 0.03, vs[0].Params.GridSize)
	assert.Equal(t, 500.0, vs[0].Params.TradeAmount)
	assert.Equal(t, 10000.0, vs[5].Params.InitialCash)

	assert.Len(t, Grid(base, nil, nil), 1)
}

func TestSweepRanksByTotalValue(t *testing.T) {
	series := pts(100, 94, 88, 93, 100, 90, 85, 95, 102)
	base := model.StrategyParams{InitialCash: 10000, TradeAmount: 1000, GridSize: 0.05}
	vs := Grid(base, []float64{0.02, 0.05, 0.1}, []float64{500, 1000})

	out, err := Sweep(context.Background(), backtest.New(), series, vs)
	require.NoError(t, err)
	require.Len(t, out, len(vs))
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Result.TotalValue(), out[i].Result.TotalValue())
	}

	// each entry matches a standalone run
	for _, r := range out {
		solo, err := backtest.New().Run(series, r.Params)
		require.NoError(t, err)
		assert.Equal(t, solo.FinalCashBalance, r.Result.FinalCashBalance)
	}
}

func TestSweepPropagatesInvalidParams(t *testing.T) {
	vs := []Variation{{Name: "bad", Params: model.StrategyParams{InitialCash: 1, TradeAmount: 1, GridSize: 2}}}
	_, err := Sweep(context.Background(), nil, pts(1, 2), vs)
	assert.ErrorIs(t, err, model.ErrInvalidParams)
}

func TestSweepHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := model.StrategyParams{InitialCash: 10000, TradeAmount: 1000, GridSize: 0.05}
	_, err := Sweep(ctx, nil, pts(1, 2), Grid(base, nil, nil))
	assert.ErrorIs(t, err, context.Canceled)
}
