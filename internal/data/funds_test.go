package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleFundList = "\ufeffvar r = [[\"000001\",\"HXCZHH\",\"华夏成长混合\",\"混合型-灵活\",\"HUAXIACHENGZHANGHUNHE\"]," +
	"[\"510300\",\"HTBHS300ETF\",\"华泰柏瑞沪深300ETF\",\"指数型-股票\",\"HUATAIBAIRUIHUSHEN300ETF\"]," +
	"[\"bad\"]];"

func TestExtractFundList(t *testing.T) {
	funds, err := ExtractFundList(sampleFundList)
	require.NoError(t, err)
	assert.Equal(t, []Fund{
		{Code: "000001", Name: "华夏成长混合", Type: "混合型-灵活"},
		{Code: "510300", Name: "华泰柏瑞沪深300ETF", Type: "指数型-股票"},
	}, funds)

	_, err = ExtractFundList("var r = ;")
	assert.ErrorIs(t, err, ErrFundListMalformed)
	_, err = ExtractFundList("var r = [[1, 2]];")
	assert.ErrorIs(t, err, ErrFundListMalformed)
}

func TestFetchFundList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/js/fundcode_search.js" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleFundList))
	}))
	t.Cleanup(srv.Close)

	c := NewFundClient(srv.URL, time.Second, zaptest.NewLogger(t))
	funds, err := c.FetchFundList(context.Background())
	require.NoError(t, err)
	assert.Len(t, funds, 2)
}

func TestFilterFunds(t *testing.T) {
	funds, err := ExtractFundList(sampleFundList)
	require.NoError(t, err)

	assert.Equal(t, funds, FilterFunds(funds, nil))
	etf := FilterFunds(funds, []string{"etf"})
	require.Len(t, etf, 1)
	assert.Equal(t, "510300", etf[0].Code)
	assert.Len(t, FilterFunds(funds, []string{"指数型", "混合型"}), 2)
}

func TestMergeFunds(t *testing.T) {
	existing := []Fund{{Code: "510300", Name: "HS300"}, {Code: "161725", Name: "liquor"}}
	update := []Fund{{Code: "510300"}, {Code: "000001", Name: "growth"}, {Code: "161725", Name: "liquor index"}}

	assert.Equal(t, []Fund{
		{Code: "000001", Name: "growth"},
		{Code: "161725", Name: "liquor index"},
		{Code: "510300", Name: "HS300"},
	}, MergeFunds(existing, update))
}

func TestSaveFundsIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "funds.txt")
	funds := []Fund{{Code: "161725", Name: "liquor index"}, {Code: "510300"}}
	require.NoError(t, SaveFunds(path, funds))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# updated ")

	loaded, err := LoadFunds(path)
	require.NoError(t, err)
	assert.Equal(t, funds, loaded)
}
