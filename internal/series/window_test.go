package series

import (
	"testing"

	"grid-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daily(n int) []model.PricePoint {
	out := make([]model.PricePoint, n)
	for i := range out {
		out[i] = model.PricePoint{Timestamp: int64(i) * day, Price: 1}
	}
	return out
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"":    SinceEstablished,
		"1y":  Last1Year,
		" 3M": Last3Months,
		"0":   Last3Months,
		"4":   Last5Years,
		"5":   SinceEstablished,
		"all": SinceEstablished,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePeriod("2w")
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	pts := daily(400)

	w := Window(pts, Last3Months)
	// latest is day 399; the window starts at day 309
	require.Len(t, w, 91)
	assert.Equal(t, int64(309)*day, w[0].Timestamp)

	assert.Len(t, Window(pts, Last1Year), 366)
	assert.Len(t, Window(pts, Last5Years), 400)
	assert.Len(t, Window(pts, SinceEstablished), 400)
	assert.Empty(t, Window(nil, Last1Year))
}

func TestWindowWithGaps(t *testing.T) {
	pts := []model.PricePoint{
		{Timestamp: 0, Price: 1},
		{Timestamp: 10 * day, Price: 1},
		{Timestamp: 200 * day, Price: 1},
		{Timestamp: 250 * day, Price: 1},
	}
	w := Window(pts, Last6Months)
	// 250-180 = 70: first point at or after day 70 is day 200
	require.Len(t, w, 2)
	assert.Equal(t, int64(200)*day, w[0].Timestamp)
}
