// Package api wires the HTTP handlers and middleware into a gin engine.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grid-backtest/internal/api/handlers"
	"grid-backtest/internal/api/middleware"
	"grid-backtest/internal/backtest"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Logger   *zap.Logger
	Fetcher  handlers.SeriesFetcher
	Location *time.Location

	FundsFile     string
	StrategiesDir string
	// StaticDir holds a built web UI; skipped when it does not exist.
	StaticDir   string
	CORSOrigins []string
}

// NewRouter builds the API router.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(metrics.Middleware())

	engine := backtest.New(backtest.WithLogger(logger.Named("engine")))
	strategyHandler := handlers.NewStrategyHandler(opts.StrategiesDir, logger)
	simulateHandler := handlers.NewSimulateHandler(opts.Fetcher, engine, strategyHandler, opts.Location, logger)
	fundsHandler := handlers.NewFundsHandler(opts.FundsFile, opts.Fetcher, opts.Location, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulateHandler.RunSimulation)
		v1.POST("/simulate/sweep", simulateHandler.RunSweep)

		v1.GET("/strategies", strategyHandler.ListStrategies)
		v1.GET("/periods", handlers.ListPeriods)

		v1.GET("/funds", fundsHandler.ListFunds)
		v1.GET("/funds/:code/stats", fundsHandler.FundStats)
	}

	serveStatic(router, opts.StaticDir, logger)
	return router
}

func serveStatic(router *gin.Engine, dir string, logger *zap.Logger) {
	if info, err := os.Stat(dir); dir == "" || err != nil || !info.IsDir() {
		logger.Info("static directory not found, skipping static file serving", zap.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	// SPA routing: everything that is not an API route gets index.html
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	logger.Info("serving static files", zap.String("dir", dir))
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
}
