package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"grid-backtest/internal/series"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://fund.eastmoney.com"
	trendVar       = "var Data_netWorthTrend = "
	fundListPath   = "/js/fundcode_search.js"
)

var (
	ErrTrendNotFound  = errors.New("Data_netWorthTrend not found in response")
	ErrTrendMalformed = errors.New("Data_netWorthTrend is not a complete JSON array")
)

// FundClient fetches fund net-worth history from the eastmoney pingzhongdata endpoint.
type FundClient struct {
	BaseURL string
	Client  *http.Client
	Cache   *ResponseCache
	// Limiter throttles outgoing requests; nil means unlimited. Cache hits are not throttled.
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

// NewFundClient creates a client. If baseURL is empty, defaults to DefaultBaseURL.
func NewFundClient(baseURL string, timeout time.Duration, logger *zap.Logger) *FundClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FundClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// NewRateLimiter allows perSecond requests with a burst of one. It returns nil
// (no limit) when perSecond <= 0.
func NewRateLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// FetchError represents a failed request to the fund data endpoint.
type FetchError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *FetchError) Error() string {
	return e.Message
}

// FetchNetWorth downloads and extracts the raw net-worth series of a fund.
// The result is ordered as served; callers still run it through series.Normalize.
func (c *FundClient) FetchNetWorth(ctx context.Context, fundCode string) ([]series.RawPoint, error) {
	fundCode = strings.TrimSpace(fundCode)
	if fundCode == "" {
		return nil, &FetchError{Code: "MISSING_FUND_CODE", Message: "fund code is required"}
	}
	log := c.Logger.With(zap.String("fund", fundCode))

	if cached, ok := c.Cache.Get(fundCode); ok {
		log.Info("cache hit", zap.Int("points", len(cached)))
		return cached, nil
	}

	body, err := c.get(ctx, log, "/pingzhongdata/"+url.PathEscape(fundCode)+".js", "fund "+fundCode+" not found")
	if err != nil {
		return nil, err
	}
	points, err := ExtractNetWorthTrend(string(body))
	if err != nil {
		log.Warn("unable to parse fund data", zap.Error(err))
		return nil, fmt.Errorf("fund %s: %w", fundCode, err)
	}
	log.Info("fetched net worth", zap.Int("points", len(points)))

	c.Cache.Set(fundCode, points)
	return points, nil
}

// FetchFundList downloads the index of every fund the data source knows.
func (c *FundClient) FetchFundList(ctx context.Context) ([]Fund, error) {
	body, err := c.get(ctx, c.Logger, fundListPath, "fund list not found")
	if err != nil {
		return nil, err
	}
	funds, err := ExtractFundList(string(body))
	if err != nil {
		c.Logger.Warn("unable to parse fund list", zap.Error(err))
		return nil, err
	}
	c.Logger.Info("fetched fund list", zap.Int("funds", len(funds)))
	return funds, nil
}

func (c *FundClient) get(ctx context.Context, log *zap.Logger, path, notFound string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/javascript, */*")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Warn("request failed", zap.String("path", path), zap.Error(err), zap.Duration("duration", duration))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Info("response", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "FUND_NOT_FOUND",
			Message:    notFound,
		}
	case http.StatusTooManyRequests:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", resp.Header.Get("Retry-After")),
		}
	default:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("data source returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
