package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grid-backtest/internal/model"
	"grid-backtest/internal/series"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration (YAML).
type Config struct {
	// Optional: load strategy parameters from a separate YAML (e.g. examples/strategies/*.yaml).
	// If both StrategyFile and Strategy are provided, Strategy overrides StrategyFile.
	StrategyFile string           `yaml:"strategy_file"`
	Strategy     StrategyConfig   `yaml:"strategy"`
	Funds        []string         `yaml:"funds"`
	Periods      []string         `yaml:"periods"`
	Timezone     string           `yaml:"timezone"`
	DataSource   DataSourceConfig `yaml:"data_source"`
	// ReportDir receives one <fund>_<period>_report.txt per run when set.
	ReportDir string `yaml:"report_dir"`
}

type StrategyConfig struct {
	GridSize    float64 `yaml:"grid_size"`
	InitialCash float64 `yaml:"initial_cash"`
	TradeAmount float64 `yaml:"trade_amount"`
	// BuyCeilingPercentile ignores buys at or above this quantile of the full series.
	// 0 disables the filter; 0.7 matches the 70th percentile rule.
	BuyCeilingPercentile float64 `yaml:"buy_ceiling_percentile"`
}

type DataSourceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps requests per second to the data source; 0 means unlimited.
	RateLimit float64 `yaml:"rate_limit"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.StrategyFile != "" {
		strategyPath := c.StrategyFile
		if !filepath.IsAbs(strategyPath) {
			// relative to the config file first, then to cwd
			cand := filepath.Join(filepath.Dir(path), strategyPath)
			if _, err := os.Stat(cand); err == nil {
				strategyPath = cand
			}
		}
		loaded, err := LoadStrategyFile(strategyPath)
		if err != nil {
			return nil, err
		}
		c.Strategy = MergeStrategy(loaded, c.Strategy)
	}
	return &c, nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	c.Strategy = c.Strategy.WithDefaults()
	if len(c.Periods) == 0 {
		c.Periods = []string{string(series.SinceEstablished)}
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Shanghai"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Strategy.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("strategy config invalid: %w", err)
	}
	if q := c.Strategy.BuyCeilingPercentile; q < 0 || q > 1 {
		return fmt.Errorf("strategy config invalid: buy_ceiling_percentile must be in [0, 1]")
	}
	for _, p := range c.Periods {
		if _, err := series.ParsePeriod(p); err != nil {
			return fmt.Errorf("periods: %w", err)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// ParsedPeriods returns Periods as typed values; call after Validate.
func (c *Config) ParsedPeriods() []series.Period {
	out := make([]series.Period, 0, len(c.Periods))
	for _, s := range c.Periods {
		if p, err := series.ParsePeriod(s); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Location resolves Timezone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// WithDefaults fills zero grid size, cash and amount with 0.05 / 10000 / 1000.
func (s StrategyConfig) WithDefaults() StrategyConfig {
	if s.GridSize == 0 {
		s.GridSize = 0.05
	}
	if s.InitialCash == 0 {
		s.InitialCash = 10000
	}
	if s.TradeAmount == 0 {
		s.TradeAmount = 1000
	}
	return s
}

// ToModelParams maps the strategy block to simulator params. The buy ceiling
// is resolved per series, so it is left at 0 here.
func (s StrategyConfig) ToModelParams() model.StrategyParams {
	return model.StrategyParams{
		InitialCash: s.InitialCash,
		TradeAmount: s.TradeAmount,
		GridSize:    s.GridSize,
	}
}

type strategyFileWrapper struct {
	Strategy StrategyConfig `yaml:"strategy"`
}

// LoadStrategyFile reads the strategy block of a preset file.
func LoadStrategyFile(path string) (StrategyConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StrategyConfig{}, err
	}
	var w strategyFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StrategyConfig{}, err
	}
	return w.Strategy, nil
}

// MergeStrategy overlays non-zero fields from override onto base.
func MergeStrategy(base, override StrategyConfig) StrategyConfig {
	out := base
	if override.GridSize != 0 {
		out.GridSize = override.GridSize
	}
	if override.InitialCash != 0 {
		out.InitialCash = override.InitialCash
	}
	if override.TradeAmount != 0 {
		out.TradeAmount = override.TradeAmount
	}
	if override.BuyCeilingPercentile != 0 {
		out.BuyCeilingPercentile = override.BuyCeilingPercentile
	}
	return out
}
