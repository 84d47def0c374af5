package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeview/internal/collector"
	"tradeview/internal/config"
	"tradeview/internal/model"
	"tradeview/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Indicators.FastSMA = 2
	cfg.Indicators.SlowSMA = 3
	cfg.Indicators.BollingerSpan = 3
	cfg.Indicators.BollingerWidth = 2.0
	cfg.Indicators.RSIPeriod = 2
	cfg.Indicators.PeriodsPerYear = 252
	cfg.Cache.TTL = time.Hour
	return cfg
}

// fakeStore is an in-memory Store for exercising the cache-aside logic.
type fakeStore struct {
	series    *model.PriceSeries
	fetchedAt time.Time
	saves     int
}

func (f *fakeStore) SaveSeries(s *model.PriceSeries) error {
	f.saves++
	f.series = s
	f.fetchedAt = time.Now()
	return nil
}

func (f *fakeStore) LoadSeries(symbol string, from, _ time.Time) (*model.PriceSeries, error) {
	if f.series == nil {
		return &model.PriceSeries{Symbol: symbol}, nil
	}
	return f.series.Since(from), nil
}

func (f *fakeStore) LastFetched(string) (time.Time, error) { return f.fetchedAt, nil }
func (f *fakeStore) Purge(time.Time) error                 { return nil }
func (f *fakeStore) Close() error                          { return nil }

func TestSnapshot(t *testing.T) {
	svc := New(&collector.MockFetcher{BasePrice: 100}, store.NewNoopStore(), testConfig(), zerolog.Nop())

	data, err := svc.Snapshot(context.Background(), "ABC", model.Tf1M)
	require.NoError(t, err)

	require.Greater(t, data.Series.Len(), 0)
	assert.Equal(t, "ABC", data.Symbol)
	assert.Equal(t, model.Tf1M, data.Timeframe)

	// Overlays stay aligned to the visible bars.
	for _, is := range data.IndicatorSeriesList() {
		assert.Equal(t, data.Series.Len(), is.Len(), is.Name)
	}
	// The warm-up pad means even the slow SMA is present at the left edge.
	assert.True(t, data.SMASlow.Present(0))

	assert.Equal(t, data.Series.Last().Close, data.Metrics.LastPrice)
	assert.False(t, math.IsNaN(data.Metrics.Volatility))
	assert.GreaterOrEqual(t, data.Metrics.Volatility, 0.0)
	assert.Len(t, data.Insights, 3)
}

func TestSnapshot_FetcherErrorPropagates(t *testing.T) {
	svc := New(&collector.MockFetcher{Err: collector.ErrSymbolNotFound}, store.NewNoopStore(), testConfig(), zerolog.Nop())

	_, err := svc.Snapshot(context.Background(), "NOPE", model.Tf1Y)
	require.ErrorIs(t, err, collector.ErrSymbolNotFound)
}

func TestCompare(t *testing.T) {
	svc := New(&collector.MockFetcher{BasePrice: 100}, store.NewNoopStore(), testConfig(), zerolog.Nop())

	cmp, err := svc.Compare(context.Background(), "ABC", "XYZ", model.Tf3M)
	require.NoError(t, err)

	assert.Equal(t, "ABC", cmp.Symbol)
	assert.Equal(t, "XYZ", cmp.Benchmark)
	require.NotEmpty(t, cmp.Times)
	assert.Len(t, cmp.SymbolPct, len(cmp.Times))
	assert.Len(t, cmp.BenchPct, len(cmp.Times))
	// Both mock series follow the same pattern, so they correlate perfectly.
	assert.InDelta(t, 1.0, cmp.Correlation, 1e-9)
	assert.InDelta(t, 0.0, cmp.SymbolPct[0], 1e-12)
}

func TestForecast(t *testing.T) {
	svc := New(&collector.MockFetcher{BasePrice: 100}, store.NewNoopStore(), testConfig(), zerolog.Nop())

	fc, err := svc.Forecast(context.Background(), "ABC", model.Tf3M, 5)
	require.NoError(t, err)
	require.Len(t, fc.Values, 5)
	require.Len(t, fc.Times, 5)
	assert.Equal(t, fc.Slope > 0, fc.Upward)
}

func TestLoadOrFetch_FreshCacheSkipsUpstream(t *testing.T) {
	now := time.Now()
	cached := collector.GenerateSeries("ABC", 100, model.Tf1M.FetchStart(now), now)
	st := &fakeStore{series: cached, fetchedAt: now}

	// The fetcher always fails; a fresh cache must make that invisible.
	svc := New(&collector.MockFetcher{Err: errors.New("upstream down")}, st, testConfig(), zerolog.Nop())

	data, err := svc.Snapshot(context.Background(), "ABC", model.Tf1M)
	require.NoError(t, err)
	assert.Greater(t, data.Series.Len(), 0)
	assert.Equal(t, 0, st.saves)
}

func TestLoadOrFetch_StaleCacheIsFallback(t *testing.T) {
	now := time.Now()
	cached := collector.GenerateSeries("ABC", 100, model.Tf1M.FetchStart(now), now)
	st := &fakeStore{series: cached, fetchedAt: now.Add(-2 * time.Hour)} // past the 1h TTL

	svc := New(&collector.MockFetcher{Err: errors.New("upstream down")}, st, testConfig(), zerolog.Nop())

	data, err := svc.Snapshot(context.Background(), "ABC", model.Tf1M)
	require.NoError(t, err)
	assert.Greater(t, data.Series.Len(), 0)
}

func TestLoadOrFetch_WritesThrough(t *testing.T) {
	st := &fakeStore{}
	svc := New(&collector.MockFetcher{BasePrice: 100}, st, testConfig(), zerolog.Nop())

	_, err := svc.Snapshot(context.Background(), "ABC", model.Tf1M)
	require.NoError(t, err)
	assert.Equal(t, 1, st.saves)
}

func TestRefresh(t *testing.T) {
	st := &fakeStore{}
	svc := New(&collector.MockFetcher{BasePrice: 100}, st, testConfig(), zerolog.Nop())

	require.NoError(t, svc.Refresh(context.Background(), "ABC"))
	assert.Equal(t, 1, st.saves)
	require.NotNil(t, st.series)
	assert.Equal(t, "ABC", st.series.Symbol)
}

func TestRefresh_FetchError(t *testing.T) {
	svc := New(&collector.MockFetcher{Err: collector.ErrNoData}, &fakeStore{}, testConfig(), zerolog.Nop())
	require.ErrorIs(t, svc.Refresh(context.Background(), "ABC"), collector.ErrNoData)
}
