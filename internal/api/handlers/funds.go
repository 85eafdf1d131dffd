package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"grid-backtest/internal/analysis"
	"grid-backtest/internal/api/models"
	"grid-backtest/internal/data"
	"grid-backtest/internal/series"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FundsHandler serves the configured fund list and per-fund price statistics.
type FundsHandler struct {
	fundsFile string
	fetcher   SeriesFetcher
	location  *time.Location
	logger    *zap.Logger
}

func NewFundsHandler(fundsFile string, fetcher SeriesFetcher, loc *time.Location, logger *zap.Logger) *FundsHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FundsHandler{fundsFile: fundsFile, fetcher: fetcher, location: loc, logger: logger}
}

// ListFunds handles GET /api/v1/funds
func (h *FundsHandler) ListFunds(c *gin.Context) {
	funds, err := data.LoadFunds(h.fundsFile)
	if err != nil {
		// a missing list is not an error, the server just has nothing preconfigured
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"funds": []models.FundInfo{}, "count": 0})
			return
		}
		h.logger.Error("failed to load funds file", zap.String("file", h.fundsFile), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "FUNDS_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	out := make([]models.FundInfo, len(funds))
	for i, f := range funds {
		out[i] = models.FundInfo{Code: f.Code, Name: f.Name}
	}
	c.JSON(http.StatusOK, gin.H{"funds": out, "count": len(out)})
}

// FundStats handles GET /api/v1/funds/:code/stats?period=1y
func (h *FundsHandler) FundStats(c *gin.Context) {
	code := c.Param("code")
	period, err := parsePeriod(c.Query("period"))
	if err != nil {
		writeError(c, err)
		return
	}
	full, err := loadSeries(c.Request.Context(), h.fetcher, code, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	points := series.Window(full, period)
	stats := analysis.ComputeStats(points)
	c.JSON(http.StatusOK, models.StatsResponse{
		FundCode: code,
		Period:   string(period),
		Count:    stats.Count,
		Min:      stats.Min,
		Max:      stats.Max,
		Mean:     stats.Mean,
		P30:      stats.P30,
		P70:      stats.P70,
		Window:   window(points, h.location),
	})
}
