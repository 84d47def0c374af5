package scheduler

import (
	"context"
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

func testService() *service.Service {
	cfg := &config.Config{}
	cfg.Indicators.FastSMA = 2
	cfg.Indicators.SlowSMA = 3
	cfg.Indicators.BollingerSpan = 3
	cfg.Indicators.BollingerWidth = 2.0
	cfg.Indicators.RSIPeriod = 2
	cfg.Indicators.PeriodsPerYear = 252
	cfg.Cache.TTL = time.Hour
	return service.New(&collector.MockFetcher{BasePrice: 100}, store.NewNoopStore(), cfg, zerolog.Nop())
}

func TestRegister_BadCronExpression(t *testing.T) {
	s := New(context.Background(), testService(), []string{"ABC"}, zerolog.Nop())
	require.Error(t, s.Register("not a cron expression"))
}

func TestRegister_EmptyWatchlistIsInert(t *testing.T) {
	s := New(context.Background(), testService(), nil, zerolog.Nop())
	require.NoError(t, s.Register("not even parsed"))
}

func TestRunNow(t *testing.T) {
	s := New(context.Background(), testService(), []string{"ABC", "XYZ"}, zerolog.Nop())
	require.NoError(t, s.Register("0 30 22 * * 1-5"))

	// Refresh errors are logged, not returned; RunNow must simply complete.
	assert.NotPanics(t, s.RunNow)
}

func TestRunNow_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(ctx, testService(), []string{"ABC"}, zerolog.Nop())
	assert.NotPanics(t, s.RunNow)
}
