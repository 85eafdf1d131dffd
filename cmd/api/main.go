package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grid-backtest/internal/api"
	"grid-backtest/internal/config"
	"grid-backtest/internal/data"
	"grid-backtest/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	cfgFile := flag.String("config", "", "Optional server config file (yaml/json/toml); GRID_* env vars override it")
	flag.Parse()

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	cfg, err := config.LoadServer(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load server config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	client := data.NewFundClient(cfg.DataBaseURL, cfg.DataTimeout, log.Named("eastmoney"))
	client.Limiter = data.NewRateLimiter(cfg.DataRateLimit)
	if cfg.CacheEnable {
		client.Cache = data.NewResponseCache(cfg.CacheTTL)
		defer client.Cache.Close()
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Logger:        log,
		Fetcher:       client,
		Location:      loc,
		FundsFile:     cfg.FundsFile,
		StrategiesDir: cfg.StrategiesDir,
		StaticDir:     cfg.StaticDir,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting API server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("cache", cfg.CacheEnable),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
