package series

import (
	"fmt"
	"sort"
	"strings"

	"grid-backtest/internal/model"
)

// Period is a lookback window measured back from the latest point of a series.
type Period string

const (
	Last3Months      Period = "3m"
	Last6Months      Period = "6m"
	Last1Year        Period = "1y"
	Last3Years       Period = "3y"
	Last5Years       Period = "5y"
	SinceEstablished Period = "all"
)

const day = int64(24 * 3600)

// Periods lists every supported period in ascending span order.
var Periods = []Period{Last3Months, Last6Months, Last1Year, Last3Years, Last5Years, SinceEstablished}

// numeric codes used by older config files: 0=3m ... 5=all
var periodCodes = map[string]Period{
	"0": Last3Months,
	"1": Last6Months,
	"2": Last1Year,
	"3": Last3Years,
	"4": Last5Years,
	"5": SinceEstablished,
}

// ParsePeriod accepts a period name ("1y") or its numeric code ("2").
// An empty string means SinceEstablished.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SinceEstablished, nil
	}
	if p, ok := periodCodes[s]; ok {
		return p, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Span is the lookback length in seconds; 0 for SinceEstablished.
func (p Period) Span() int64 {
	switch p {
	case Last3Months:
		return 90 * day
	case Last6Months:
		return 180 * day
	case Last1Year:
		return 365 * day
	case Last3Years:
		return 3 * 365 * day
	case Last5Years:
		return 5 * 365 * day
	default:
		return 0
	}
}

// Window returns the suffix of points starting at the first point whose
// timestamp is >= latest-span. The result shares the backing array.
func Window(points []model.PricePoint, p Period) []model.PricePoint {
	span := p.Span()
	if span == 0 || len(points) == 0 {
		return points
	}
	from := points[len(points)-1].Timestamp - span
	i := sort.Search(len(points), func(i int) bool {
		return points[i].Timestamp >= from
	})
	return points[i:]
}
