package series

import (
	"errors"
	"math"
	"testing"

	"grid-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValidSeries(t *testing.T) {
	raw := []RawPoint{{1, 1.0}, {2, 1.1}, {2, 1.2}, {5, 0.9}}
	got, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, got, 4)
	// ties keep input order
	assert.Equal(t, model.PricePoint{Timestamp: 2, Price: 1.1}, got[1])
	assert.Equal(t, model.PricePoint{Timestamp: 2, Price: 1.2}, got[2])
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, model.ErrEmptySeries)
	_, err = Normalize([]RawPoint{})
	assert.ErrorIs(t, err, model.ErrEmptySeries)
}

func TestNormalizeInvalidPrice(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Normalize([]RawPoint{{1, 1}, {2, price}})
		require.ErrorIs(t, err, model.ErrInvalidPrice, "price %v", price)

		var se *model.SeriesError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 1, se.Index)
	}
}

// Unsorted input is rejected, not reordered.
func TestNormalizeUnsorted(t *testing.T) {
	_, err := Normalize([]RawPoint{{10, 1}, {20, 1}, {15, 1}})
	require.ErrorIs(t, err, model.ErrUnsortedSeries)

	var se *model.SeriesError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Index)
	assert.Equal(t, int64(15), se.Timestamp)
}

func TestNormalizeDoesNotAliasInput(t *testing.T) {
	raw := []RawPoint{{1, 1}, {2, 2}}
	got, err := Normalize(raw)
	require.NoError(t, err)
	raw[0].Price = 99
	assert.Equal(t, 1.0, got[0].Price)
}
