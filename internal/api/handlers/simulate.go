package handlers

import (
	"fmt"
	"net/http"
	"time"

	"grid-backtest/internal/analysis"
	"grid-backtest/internal/api/models"
	"grid-backtest/internal/backtest"
	"grid-backtest/internal/config"
	"grid-backtest/internal/model"
	"grid-backtest/internal/report"
	"grid-backtest/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	fetcher  SeriesFetcher
	engine   *backtest.Engine
	presets  *StrategyHandler
	location *time.Location
	logger   *zap.Logger
}

// NewSimulateHandler creates a new simulate handler. fetcher may be nil, in
// which case only inline points are accepted.
func NewSimulateHandler(fetcher SeriesFetcher, engine *backtest.Engine, presets *StrategyHandler, loc *time.Location, logger *zap.Logger) *SimulateHandler {
	if engine == nil {
		engine = backtest.New()
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulateHandler{
		fetcher:  fetcher,
		engine:   engine,
		presets:  presets,
		location: loc,
		logger:   logger,
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(c, err)
		return
	}
	full, err := loadSeries(c.Request.Context(), h.fetcher, req.FundCode, req.Points)
	if err != nil {
		writeError(c, err)
		return
	}
	strat, err := h.resolveStrategy(req.Preset, req.Strategy)
	if err != nil {
		writeError(c, err)
		return
	}
	// the ceiling is taken over the whole history, not just the window
	params, err := resolveParams(strat, full)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.engine.Run(series.Window(full, period), params)
	if err != nil {
		writeError(c, err)
		return
	}

	id := uuid.NewString()
	h.logger.Info("simulation completed",
		zap.String("run_id", id),
		zap.String("fund", req.FundCode),
		zap.String("period", string(period)),
		zap.Int("points", res.Points),
		zap.Int("closed", len(res.ClosedTrades)),
		zap.Float64("profit", res.TotalRealizedProfit),
	)

	resp := models.SimulateResponse{
		ID:      id,
		Status:  "completed",
		Summary: h.buildSummary(res),
		Params:  resolvedParams(params, period),
	}
	if req.Options.IncludeTrades {
		resp.Trades = h.convertTrades(res)
	}
	if req.Options.IncludeReport {
		f := report.Formatter{Location: h.location}
		if req.FundCode != "" {
			f.Title = fmt.Sprintf("Fund: %s, Period: %s", req.FundCode, period)
		}
		resp.Report = f.Format(res, params)
	}
	c.JSON(http.StatusOK, resp)
}

// RunSweep handles POST /api/v1/simulate/sweep
func (h *SimulateHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(c, err)
		return
	}
	full, err := loadSeries(c.Request.Context(), h.fetcher, req.FundCode, req.Points)
	if err != nil {
		writeError(c, err)
		return
	}
	base, err := h.resolveStrategy(req.Preset, req.Base)
	if err != nil {
		writeError(c, err)
		return
	}

	variations := make([]analysis.Variation, 0, len(req.Variations))
	for _, v := range req.Variations {
		params, err := resolveParams(config.MergeStrategy(base, toStrategyConfig(v.Strategy)), full)
		if err != nil {
			writeError(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		variations = append(variations, analysis.Variation{Name: v.Name, Params: params})
	}

	ranked, err := analysis.Sweep(c.Request.Context(), h.engine, series.Window(full, period), variations)
	if err != nil {
		writeError(c, err)
		return
	}

	id := uuid.NewString()
	h.logger.Info("sweep completed",
		zap.String("run_id", id),
		zap.String("fund", req.FundCode),
		zap.Int("variations", len(ranked)),
	)

	resp := models.SweepResponse{ID: id, Results: make([]models.SweepResult, len(ranked))}
	for i, r := range ranked {
		resp.Results[i] = models.SweepResult{
			Rank:    i + 1,
			Name:    r.Name,
			Params:  resolvedParams(r.Params, period),
			Summary: h.buildSummary(r.Result),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// resolveStrategy layers the request fields over an optional preset, then defaults.
func (h *SimulateHandler) resolveStrategy(preset string, in models.StrategyInput) (config.StrategyConfig, error) {
	var base config.StrategyConfig
	if preset != "" {
		if h.presets == nil {
			return base, &requestError{Code: "INVALID_PRESET", Message: "strategy presets are not configured"}
		}
		loaded, err := h.presets.LoadPreset(preset)
		if err != nil {
			return base, err
		}
		base = loaded
	}
	return config.MergeStrategy(base, toStrategyConfig(in)).WithDefaults(), nil
}

func resolveParams(s config.StrategyConfig, full []model.PricePoint) (model.StrategyParams, error) {
	params := s.ToModelParams()
	if q := s.BuyCeilingPercentile; q != 0 {
		ceiling, err := analysis.BuyCeiling(full, q)
		if err != nil {
			return params, err
		}
		params.BuyCeiling = ceiling
	}
	return params, params.Validate()
}

func toStrategyConfig(in models.StrategyInput) config.StrategyConfig {
	return config.StrategyConfig{
		GridSize:             in.GridSize,
		InitialCash:          in.InitialCash,
		TradeAmount:          in.TradeAmount,
		BuyCeilingPercentile: in.BuyCeilingPercentile,
	}
}

func resolvedParams(p model.StrategyParams, period series.Period) models.ResolvedParams {
	return models.ResolvedParams{
		GridSize:    p.GridSize,
		InitialCash: p.InitialCash,
		TradeAmount: p.TradeAmount,
		BuyCeiling:  p.BuyCeiling,
		Period:      string(period),
	}
}

func (h *SimulateHandler) buildSummary(res *model.SimulationResult) models.Summary {
	return models.Summary{
		FinalCashBalance:    report.RoundMoney(res.FinalCashBalance),
		FinalHoldingsUnits:  res.FinalHoldingsUnits,
		FinalHoldingsValue:  report.RoundMoney(res.FinalHoldingsValue()),
		TotalValue:          report.RoundMoney(res.TotalValue()),
		TotalRealizedProfit: report.RoundMoney(res.TotalRealizedProfit),
		LastPrice:           res.LastPrice,
		ClosedTrades:        len(res.ClosedTrades),
		OpenPositions:       len(res.OpenPositions),
		SkippedBuys:         res.SkippedBuys,
		Points:              res.Points,
		Window: models.TimeWindow{
			Start: time.Unix(res.Start, 0).In(h.location),
			End:   time.Unix(res.End, 0).In(h.location),
		},
	}
}

func (h *SimulateHandler) convertTrades(res *model.SimulationResult) []models.TradeRow {
	lots := res.Lots()
	rows := make([]models.TradeRow, len(lots))
	for i, lot := range lots {
		rows[i] = models.TradeRow{
			BuyTime:  time.Unix(lot.BuyTimestamp, 0).In(h.location),
			BuyPrice: lot.BuyPrice,
			Amount:   lot.Amount,
			Units:    lot.Units(),
			Profit:   report.RoundMoney(lot.Profit()),
			Status:   string(lot.Status),
		}
		if lot.Status == model.LotClosed {
			sold := time.Unix(lot.SellTimestamp, 0).In(h.location)
			rows[i].SellTime = &sold
			rows[i].SellPrice = lot.SellPrice
		}
	}
	return rows
}
