package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"grid-backtest/internal/data"
	"grid-backtest/internal/logger"

	"go.uber.org/zap"
)

func main() {
	var (
		outputPath = flag.String("output", "./data/funds.txt", "Funds file to write")
		seedFile   = flag.String("seed", "", "Existing funds file to merge with (default: --output)")
		types      = flag.String("type", "ETF", "Comma-separated keywords matched against fund type and name; empty keeps every fund")
		baseURL    = flag.String("base-url", "", "Data source base URL (default: "+data.DefaultBaseURL+")")
		timeout    = flag.Duration("timeout", 60*time.Second, "Request timeout")
	)
	flag.Parse()

	log, err := logger.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	var existing []data.Fund
	seed := *seedFile
	if seed == "" {
		seed = *outputPath
	}
	if list, err := data.LoadFunds(seed); err == nil {
		existing = list
		log.Info("loaded existing funds", zap.String("file", seed), zap.Int("count", len(existing)))
	}

	client := data.NewFundClient(*baseURL, *timeout, log)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	all, err := client.FetchFundList(ctx)
	if err != nil {
		log.Fatal("failed to fetch fund list", zap.Error(err))
	}

	var keywords []string
	for _, k := range strings.Split(*types, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	matched := data.FilterFunds(all, keywords)
	log.Info("filtered fund list", zap.Strings("keywords", keywords), zap.Int("matched", len(matched)), zap.Int("total", len(all)))

	funds := data.MergeFunds(existing, matched)
	if err := data.SaveFunds(*outputPath, funds); err != nil {
		log.Fatal("failed to save funds", zap.Error(err))
	}
	fmt.Printf("Saved %d funds to %s (%d new)\n", len(funds), *outputPath, len(funds)-len(existing))
}
