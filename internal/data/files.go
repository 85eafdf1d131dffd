package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"grid-backtest/internal/series"
)

// LoadPoints reads a saved series, picking the decoder from the file extension:
// .json (LoadPointsJSON), .csv (LoadPointsCSV) or .js (a saved pingzhongdata script).
func LoadPoints(path string) ([]series.RawPoint, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadPointsJSON(path)
	case ".csv":
		return LoadPointsCSV(path)
	case ".js":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ExtractNetWorthTrend(string(raw))
	default:
		return nil, fmt.Errorf("unsupported data file %q (want .json, .csv or .js)", path)
	}
}

// LoadPointsJSON accepts either the trend array [{"x": ms, "y": price}, ...]
// or an object keyed by millisecond timestamp {"1577836800000": 1.23, ...}.
// Object keys are sorted ascending since JSON objects carry no order.
func LoadPointsJSON(path string) ([]series.RawPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	if raw[0] == '[' {
		var items []trendItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return trendToPoints(items), nil
	}

	var byMillis map[string]float64
	if err := json.Unmarshal(raw, &byMillis); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	type keyed struct {
		key   string
		ms    int64
		price float64
	}
	rows := make([]keyed, 0, len(byMillis))
	for k, v := range byMillis {
		ms, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid timestamp key %q", path, k)
		}
		rows = append(rows, keyed{key: k, ms: ms, price: v})
	}
	// Order on full milliseconds before truncating so points within one second keep a fixed order.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ms != rows[j].ms {
			return rows[i].ms < rows[j].ms
		}
		return rows[i].key < rows[j].key
	})
	out := make([]series.RawPoint, len(rows))
	for i, r := range rows {
		out[i] = series.RawPoint{Timestamp: r.ms / 1000, Price: r.price}
	}
	return out, nil
}

// LoadPointsCSV reads "date,net_value" rows with dates as YYYY-MM-DD (UTC midnight).
func LoadPointsCSV(path string) ([]series.RawPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePointsCSV(f)
}

func DecodePointsCSV(in io.Reader) ([]series.RawPoint, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	var out []series.RawPoint
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(rec[0], "date") {
			continue
		}
		day, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", line, rec[0])
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid net value %q", line, rec[1])
		}
		out = append(out, series.RawPoint{Timestamp: day.Unix(), Price: price})
	}
	return out, nil
}
