package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeview/internal/collector"
	"tradeview/internal/config"
	"tradeview/internal/service"
	"tradeview/internal/store"
)

func testRouter(t *testing.T, fetcher collector.Fetcher) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Indicators.FastSMA = 50
	cfg.Indicators.SlowSMA = 200
	cfg.Indicators.BollingerSpan = 20
	cfg.Indicators.BollingerWidth = 2.0
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.PeriodsPerYear = 252
	cfg.Cache.TTL = time.Hour

	svc := service.New(fetcher, store.NewNoopStore(), cfg, zerolog.Nop())
	return newRouter(NewHandler(svc, zerolog.Nop()), zerolog.Nop())
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChartEndpoint(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/chart/abc?range=1M")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp chartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "ABC", resp.Symbol, "symbol is upper-cased")
	assert.Equal(t, "1M", resp.Timeframe)
	assert.NotEmpty(t, resp.Bars)
	require.Len(t, resp.Indicators, 5)
	for _, ind := range resp.Indicators {
		assert.Len(t, ind.Points, len(resp.Bars), ind.Name)
	}
	assert.NotNil(t, resp.Metrics.Volatility)
	assert.Len(t, resp.Insights, 3)
}

func TestChartEndpoint_BadRange(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/chart/ABC?range=2W")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "timeframe")
}

func TestChartEndpoint_SymbolNotFound(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{Err: collector.ErrSymbolNotFound})

	rec := doGet(t, router, "/api/chart/NOPE?range=1Y")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartEndpoint_UpstreamFailure(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{Err: assert.AnError})

	rec := doGet(t, router, "/api/chart/ABC?range=1Y")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/compare/ABC?against=XYZ&range=3M")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp compareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ABC", resp.Symbol)
	assert.Equal(t, "XYZ", resp.Benchmark)
	assert.NotEmpty(t, resp.Times)
	assert.InDelta(t, 1.0, resp.Correlation, 1e-9)
}

func TestCompareEndpoint_MissingBenchmark(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/compare/ABC?range=3M")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastEndpoint(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/forecast/ABC?range=3M&horizon=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp forecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Values, 7)
	assert.Len(t, resp.Times, 7)
}

func TestForecastEndpoint_BadHorizon(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/forecast/ABC?horizon=-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/export/ABC.csv?range=1M")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ABC.csv")

	body := rec.Body.Bytes()
	require.True(t, len(body) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3], "UTF-8 BOM prefix")
	firstLine := strings.SplitN(string(body[3:]), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(firstLine, "time,open,high,low,close,volume,"), firstLine)
}

func TestExportXLSXEndpoint(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/api/export/ABC.xlsx?range=1M")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Greater(t, rec.Body.Len(), 0)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router := testRouter(t, &collector.MockFetcher{BasePrice: 100})

	rec := doGet(t, router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tradeview_http_requests_total")
}
