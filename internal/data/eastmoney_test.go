package data

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"grid-backtest/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"
)

const sampleJS = `/*161725*/var fS_name = "招商中证白酒指数";var fS_code = "161725";
var Data_netWorthTrend = [{"x":1577836800000,"y":1.0,"equityReturn":0,"unitMoney":""},{"x":1577923200000,"y":1.05,"equityReturn":5,"unitMoney":""}];
var Data_ACWorthTrend = [[1577836800000,1.0]];`

func TestExtractNetWorthTrend(t *testing.T) {
	pts, err := ExtractNetWorthTrend(sampleJS)
	require.NoError(t, err)
	assert.Equal(t, []series.RawPoint{
		{Timestamp: 1577836800, Price: 1.0},
		{Timestamp: 1577923200, Price: 1.05},
	}, pts)
}

func TestExtractNetWorthTrendErrors(t *testing.T) {
	_, err := ExtractNetWorthTrend("var somethingElse = [];")
	assert.ErrorIs(t, err, ErrTrendNotFound)

	_, err = ExtractNetWorthTrend("var Data_netWorthTrend = [{\"x\":1,\"y\":1}")
	assert.ErrorIs(t, err, ErrTrendMalformed)

	_, err = ExtractNetWorthTrend("var Data_netWorthTrend = [{\"x\":\"oops\"}];")
	assert.ErrorIs(t, err, ErrTrendMalformed)
}

func newServer(t *testing.T, hits *int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path != "/pingzhongdata/161725.js" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchNetWorth(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, sampleJS)

	c := NewFundClient(srv.URL, time.Second, zaptest.NewLogger(t))
	pts, err := c.FetchNetWorth(context.Background(), "161725")
	require.NoError(t, err)
	assert.Len(t, pts, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchNetWorthUsesCache(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, sampleJS)

	c := NewFundClient(srv.URL, time.Second, nil)
	c.Cache = NewResponseCache(time.Minute)
	t.Cleanup(c.Cache.Close)

	for i := 0; i < 3; i++ {
		pts, err := c.FetchNetWorth(context.Background(), "161725")
		require.NoError(t, err)
		assert.Len(t, pts, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchNetWorthErrors(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusInternalServerError, "")
	c := NewFundClient(srv.URL, time.Second, nil)

	_, err := c.FetchNetWorth(context.Background(), "000000")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "FUND_NOT_FOUND", fe.Code)

	_, err = c.FetchNetWorth(context.Background(), "161725")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "API_ERROR", fe.Code)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)

	_, err = c.FetchNetWorth(context.Background(), "  ")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "MISSING_FUND_CODE", fe.Code)
}

func TestFetchNetWorthReportsUnparseableData(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, "<html>maintenance</html>")
	c := NewFundClient(srv.URL, time.Second, nil)

	_, err := c.FetchNetWorth(context.Background(), "161725")
	assert.ErrorIs(t, err, ErrTrendNotFound)
}

func TestFetchNetWorthRateLimited(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits, http.StatusOK, sampleJS)
	c := NewFundClient(srv.URL, time.Second, nil)
	c.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	_, err := c.FetchNetWorth(context.Background(), "161725")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchNetWorth(ctx, "161725")
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
