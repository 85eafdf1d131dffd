package data

import (
	"encoding/json"
	"fmt"
	"strings"

	"grid-backtest/internal/series"
)

// trendItem is one element of the embedded array; x is epoch milliseconds.
type trendItem struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// ExtractNetWorthTrend pulls the Data_netWorthTrend array out of a pingzhongdata
// script and converts it to raw points with second timestamps.
func ExtractNetWorthTrend(js string) ([]series.RawPoint, error) {
	start := strings.Index(js, trendVar)
	if start == -1 {
		return nil, ErrTrendNotFound
	}
	open := strings.Index(js[start:], "[")
	if open == -1 {
		return nil, ErrTrendMalformed
	}
	open += start
	end := strings.Index(js[open:], "];")
	if end == -1 {
		return nil, ErrTrendMalformed
	}

	var items []trendItem
	if err := json.Unmarshal([]byte(js[open:open+end+1]), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrendMalformed, err)
	}
	return trendToPoints(items), nil
}

func trendToPoints(items []trendItem) []series.RawPoint {
	out := make([]series.RawPoint, len(items))
	for i, it := range items {
		out[i] = series.RawPoint{Timestamp: it.X / 1000, Price: it.Y}
	}
	return out
}
