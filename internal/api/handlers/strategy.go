package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"grid-backtest/internal/api/models"
	"grid-backtest/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StrategyHandler describes the grid strategy and serves preset files from a directory.
type StrategyHandler struct {
	presetDir string
	logger    *zap.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(presetDir string, logger *zap.Logger) *StrategyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abs, err := filepath.Abs(presetDir); err == nil {
		presetDir = abs
	}
	return &StrategyHandler{presetDir: presetDir, logger: logger}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "grid",
			Description: "Buys a fixed amount each time the price drops one grid step below the base price and sells each lot once it gains one grid step.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "grid_size",
					Type:        "float",
					Description: "Relative step between grid lines, in (0, 1)",
					Default:     0.05,
				},
				{
					Name:        "initial_cash",
					Type:        "float",
					Description: "Starting cash balance",
					Default:     10000.0,
				},
				{
					Name:        "trade_amount",
					Type:        "float",
					Description: "Cash spent on every buy",
					Default:     1000.0,
				},
				{
					Name:        "buy_ceiling_percentile",
					Type:        "float",
					Description: "Skip buys at or above this percentile of the full price history, in (0, 1]; 0 disables",
				},
			},
		},
	}

	presets, err := h.listPresets()
	if err != nil {
		h.logger.Warn("failed to read strategy presets", zap.String("dir", h.presetDir), zap.Error(err))
		presets = []models.PresetInfo{}
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies, "presets": presets})
}

// LoadPreset reads <presetDir>/<id>.yaml.
func (h *StrategyHandler) LoadPreset(id string) (config.StrategyConfig, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return config.StrategyConfig{}, &requestError{Code: "INVALID_PRESET", Message: "invalid preset id: " + id}
	}
	s, err := config.LoadStrategyFile(filepath.Join(h.presetDir, id+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return s, &requestError{Code: "INVALID_PRESET", Message: "unknown preset: " + id}
	}
	if err != nil {
		return s, &requestError{Code: "INVALID_PRESET", Message: fmt.Sprintf("preset %s: %v", id, err)}
	}
	return s, nil
}

func (h *StrategyHandler) listPresets() ([]models.PresetInfo, error) {
	entries, err := os.ReadDir(h.presetDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.PresetInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	presets := []models.PresetInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		s, err := config.LoadStrategyFile(filepath.Join(h.presetDir, entry.Name()))
		if err != nil {
			h.logger.Warn("skipping invalid preset", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		presets = append(presets, models.PresetInfo{
			ID: id,
			Strategy: models.StrategyInput{
				GridSize:             s.GridSize,
				InitialCash:          s.InitialCash,
				TradeAmount:          s.TradeAmount,
				BuyCeilingPercentile: s.BuyCeilingPercentile,
			},
		})
	}
	return presets, nil
}
