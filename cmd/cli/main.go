package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"grid-backtest/internal/analysis"
	"grid-backtest/internal/backtest"
	"grid-backtest/internal/config"
	"grid-backtest/internal/data"
	"grid-backtest/internal/logger"
	"grid-backtest/internal/model"
	"grid-backtest/internal/report"
	"grid-backtest/internal/series"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml [--fund 161725,510300 | --data nav.json] [--period 1y] [--out report.txt] [--csv trades.csv]")
	fmt.Println("  cli sweep --data nav.json --grid-sizes 0.03,0.05,0.08 --amounts 500,1000")
	fmt.Println("  cli stats --fund 161725 --period 3y")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data accepts .json ([{x,y}] or {ms: price}), .csv (date,net_value) or a saved pingzhongdata .js")
	fmt.Println("  - periods: 3m 6m 1y 3y 5y all (or 0-5); several can be given comma-separated")
	fmt.Println("  - with several funds or periods, --out and --csv name directories")
}

// source is one series to simulate: a fund fetched over HTTP or a local file.
type source struct {
	name   string
	points []model.PricePoint
}

type commonFlags struct {
	cfgPath  *string
	funds    *string
	dataPath *string
	periods  *string
	logLevel *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		cfgPath:  fs.String("config", "", "Path to YAML config (defaults apply when omitted)"),
		funds:    fs.String("fund", "", "Comma-separated fund codes; overrides funds in the config"),
		dataPath: fs.String("data", "", "Local series file instead of fetching funds"),
		periods:  fs.String("period", "", "Comma-separated lookback periods; overrides periods in the config"),
		logLevel: fs.String("log-level", "warn", "Log level (debug shows every trade)"),
	}
}

func (f commonFlags) load() (*config.Config, *zap.Logger) {
	log, err := logger.New(*f.logLevel, "console")
	if err != nil {
		fatal(err)
	}

	cfg := &config.Config{}
	if *f.cfgPath != "" {
		cfg, err = config.Load(*f.cfgPath)
		if err != nil {
			fatal(fmt.Errorf("config: %w", err))
		}
	}
	if s := splitList(*f.funds); len(s) > 0 {
		cfg.Funds = s
	}
	if s := splitList(*f.periods); len(s) > 0 {
		cfg.Periods = s
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	return cfg, log
}

// sources loads every requested series, normalized and in full; windows are applied later.
func (f commonFlags) sources(cfg *config.Config, log *zap.Logger) []source {
	if *f.dataPath != "" {
		raw, err := data.LoadPoints(*f.dataPath)
		if err != nil {
			fatal(err)
		}
		pts, err := series.Normalize(raw)
		if err != nil {
			fatal(fmt.Errorf("%s: %w", *f.dataPath, err))
		}
		name := strings.TrimSuffix(filepath.Base(*f.dataPath), filepath.Ext(*f.dataPath))
		return []source{{name: name, points: pts}}
	}
	if len(cfg.Funds) == 0 {
		fatal(fmt.Errorf("either --data, --fund or funds in --config is required"))
	}

	client := data.NewFundClient(cfg.DataSource.BaseURL, cfg.DataSource.Timeout, log.Named("eastmoney"))
	client.Limiter = data.NewRateLimiter(cfg.DataSource.RateLimit)
	out := make([]source, 0, len(cfg.Funds))
	for _, code := range cfg.Funds {
		raw, err := client.FetchNetWorth(context.Background(), code)
		if err != nil {
			fatal(err)
		}
		pts, err := series.Normalize(raw)
		if err != nil {
			fatal(fmt.Errorf("fund %s: %w", code, err))
		}
		out = append(out, source{name: code, points: pts})
	}
	return out
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	common := addCommonFlags(fs)
	outPath := fs.String("out", "", "Report file (or directory for several runs); default report_dir from config, else stdout")
	csvPath := fs.String("csv", "", "Optional trades CSV (or directory for several runs)")
	_ = fs.Parse(args)

	cfg, log := common.load()
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		fatal(err)
	}
	sources := common.sources(cfg, log)
	periods := cfg.ParsedPeriods()
	multi := len(sources)*len(periods) > 1

	reportTarget, reportMulti := *outPath, multi
	if reportTarget == "" && cfg.ReportDir != "" {
		reportTarget, reportMulti = cfg.ReportDir, true
	}

	engine := backtest.New(backtest.WithLogger(log))
	for _, src := range sources {
		params := cfg.Strategy.ToModelParams()
		if q := cfg.Strategy.BuyCeilingPercentile; q > 0 {
			// over the whole history so every period shares one ceiling
			params.BuyCeiling, err = analysis.BuyCeiling(src.points, q)
			if err != nil {
				fatal(err)
			}
		}

		for _, period := range periods {
			res, err := engine.Run(series.Window(src.points, period), params)
			if err != nil {
				fatal(fmt.Errorf("%s %s: %w", src.name, period, err))
			}
			runName := fmt.Sprintf("%s_%s", src.name, period)
			f := report.Formatter{
				Location: loc,
				Title:    fmt.Sprintf("Fund: %s, Period: %s", src.name, period),
			}

			if reportTarget == "" {
				if err := f.Write(os.Stdout, res, params); err != nil {
					fatal(err)
				}
				fmt.Println()
			} else {
				path := outputPath(reportTarget, reportMulti, runName+"_report.txt")
				if err := writeReport(path, f, res, params); err != nil {
					fatal(err)
				}
				fmt.Printf("%s: total value %s, profit %s -> %s\n",
					runName, report.Money(res.TotalValue()), report.Money(res.TotalRealizedProfit), path)
			}

			if *csvPath != "" {
				path := outputPath(*csvPath, multi, runName+"_trades.csv")
				if err := backtest.WriteTradesCSV(path, res); err != nil {
					fatal(err)
				}
				fmt.Printf("Wrote %d trades to %s\n", len(res.ClosedTrades)+len(res.OpenPositions), path)
			}
		}
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	common := addCommonFlags(fs)
	gridSizes := fs.String("grid-sizes", "0.03,0.05,0.08", "Comma-separated grid sizes")
	amounts := fs.String("amounts", "", "Comma-separated trade amounts (default: trade_amount from config)")
	top := fs.Int("top", 0, "Only print the best N variations (0=all)")
	_ = fs.Parse(args)

	cfg, log := common.load()
	defer func() { _ = log.Sync() }()

	grids, err := parseFloats(*gridSizes)
	if err != nil {
		fatal(fmt.Errorf("--grid-sizes: %w", err))
	}
	amts, err := parseFloats(*amounts)
	if err != nil {
		fatal(fmt.Errorf("--amounts: %w", err))
	}

	engine := backtest.New(backtest.WithLogger(log))
	for _, src := range common.sources(cfg, log) {
		base := cfg.Strategy.ToModelParams()
		if q := cfg.Strategy.BuyCeilingPercentile; q > 0 {
			base.BuyCeiling, err = analysis.BuyCeiling(src.points, q)
			if err != nil {
				fatal(err)
			}
		}
		variations := analysis.Grid(base, grids, amts)

		for _, period := range cfg.ParsedPeriods() {
			ranked, err := analysis.Sweep(context.Background(), engine, series.Window(src.points, period), variations)
			if err != nil {
				fatal(err)
			}
			if *top > 0 && *top < len(ranked) {
				ranked = ranked[:*top]
			}

			fmt.Printf("%s, period %s\n", src.name, period)
			fmt.Printf("%-4s %-8s %-10s %-12s %-12s %-8s %-6s %-6s\n", "rank", "grid", "amount", "total", "profit", "closed", "open", "skip")
			for i, r := range ranked {
				fmt.Printf("%-4d %-8g %-10g %-12s %-12s %-8d %-6d %-6d\n",
					i+1,
					r.Params.GridSize,
					r.Params.TradeAmount,
					report.Money(r.Result.TotalValue()),
					report.Money(r.Result.TotalRealizedProfit),
					len(r.Result.ClosedTrades),
					len(r.Result.OpenPositions),
					r.Result.SkippedBuys,
				)
			}
			fmt.Println()
		}
	}
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(args)

	cfg, log := common.load()
	defer func() { _ = log.Sync() }()
	loc, err := cfg.Location()
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%-12s %-6s %-22s %-6s %-9s %-9s %-9s %-9s %-9s\n", "series", "period", "window", "count", "min", "max", "mean", "p30", "p70")
	for _, src := range common.sources(cfg, log) {
		for _, period := range cfg.ParsedPeriods() {
			pts := series.Window(src.points, period)
			s := analysis.ComputeStats(pts)
			window := fmt.Sprintf("%s..%s",
				pts[0].Time().In(loc).Format(time.DateOnly),
				pts[len(pts)-1].Time().In(loc).Format(time.DateOnly))
			fmt.Printf("%-12s %-6s %-22s %-6d %-9.4f %-9.4f %-9.4f %-9.4f %-9.4f\n",
				src.name, period, window, s.Count, s.Min, s.Max, s.Mean, s.P30, s.P70)
		}
	}
}

func writeReport(path string, f report.Formatter, res *model.SimulationResult, params model.StrategyParams) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out, res, params); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// outputPath treats target as a directory when several runs share it.
func outputPath(target string, multi bool, name string) string {
	if multi {
		return filepath.Join(target, name)
	}
	return target
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
