package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grid-backtest/internal/api/models"
	"grid-backtest/internal/data"
	"grid-backtest/internal/model"
	"grid-backtest/internal/series"
)

// SeriesFetcher is the part of data.FundClient the handlers depend on.
type SeriesFetcher interface {
	FetchNetWorth(ctx context.Context, fundCode string) ([]series.RawPoint, error)
}

// loadSeries resolves the request's data source into a normalized series.
// Exactly one of fundCode and points must be set.
func loadSeries(ctx context.Context, fetcher SeriesFetcher, fundCode string, points []models.PointInput) ([]model.PricePoint, error) {
	var raw []series.RawPoint
	switch {
	case fundCode != "" && len(points) > 0:
		return nil, &requestError{Code: "INVALID_REQUEST", Message: "fund_code and points are mutually exclusive"}
	case fundCode != "":
		if fetcher == nil {
			return nil, &requestError{Code: "INVALID_REQUEST", Message: "fund lookups are disabled on this server"}
		}
		fetched, err := fetcher.FetchNetWorth(ctx, fundCode)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			var fetchErr *data.FetchError
			if errors.As(err, &fetchErr) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", errDataFetch, err)
		}
		raw = fetched
	case points == nil:
		return nil, &requestError{Code: "INVALID_REQUEST", Message: "either fund_code or points is required"}
	default:
		raw = make([]series.RawPoint, len(points))
		for i, p := range points {
			raw[i] = series.RawPoint{Timestamp: p.Timestamp, Price: p.Price}
		}
	}
	return series.Normalize(raw)
}

func parsePeriod(s string) (series.Period, error) {
	p, err := series.ParsePeriod(s)
	if err != nil {
		return "", &requestError{Code: "INVALID_PERIOD", Message: err.Error()}
	}
	return p, nil
}

func window(points []model.PricePoint, loc *time.Location) models.TimeWindow {
	if len(points) == 0 {
		return models.TimeWindow{}
	}
	return models.TimeWindow{
		Start: points[0].Time().In(loc),
		End:   points[len(points)-1].Time().In(loc),
	}
}
