package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"grid-backtest/internal/backtest"
	"grid-backtest/internal/model"

	"golang.org/x/sync/errgroup"
)

// Variation is one parameter set of a what-if sweep.
type Variation struct {
	Name   string
	Params model.StrategyParams
}

type SweepResult struct {
	Variation
	Result *model.SimulationResult
}

// Grid builds the cross product of grid sizes and trade amounts on top of base.
func Grid(base model.StrategyParams, gridSizes, tradeAmounts []float64) []Variation {
	if len(gridSizes) == 0 {
		gridSizes = []float64{base.GridSize}
	}
	if len(tradeAmounts) == 0 {
		tradeAmounts = []float64{base.TradeAmount}
	}
	out := make([]Variation, 0, len(gridSizes)*len(tradeAmounts))
	for _, g := range gridSizes {
		for _, a := range tradeAmounts {
			p := base
			p.GridSize = g
			p.TradeAmount = a
			out = append(out, Variation{
				Name:   fmt.Sprintf("grid=%g amount=%g", g, a),
				Params: p,
			})
		}
	}
	return out
}

// Sweep runs every variation against the same series in parallel and ranks
// them by total value, best first. Runs share only the read-only series.
func Sweep(ctx context.Context, engine *backtest.Engine, points []model.PricePoint, variations []Variation) ([]SweepResult, error) {
	if engine == nil {
		engine = backtest.New()
	}
	out := make([]SweepResult, len(variations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range variations {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := engine.Run(points, v.Params)
			if err != nil {
				return fmt.Errorf("variation %q: %w", v.Name, err)
			}
			out[i] = SweepResult{Variation: v, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.TotalValue() > out[j].Result.TotalValue()
	})
	return out, nil
}
