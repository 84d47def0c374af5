package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tradeview/internal/collector"
	"tradeview/internal/config"
	"tradeview/internal/indicator"
	"tradeview/internal/model"
	"tradeview/internal/store"
)

// Service orchestrates data fetching and indicator computation for the
// dashboard endpoints. Each call is independent and side-effect free apart
// from cache writes.
type Service struct {
	fetcher collector.Fetcher
	store   store.Store
	cfg     *config.Config
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates a Service.
func New(fetcher collector.Fetcher, st store.Store, cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		store:   st,
		cfg:     cfg,
		logger:  logger.With().Str("component", "service").Logger(),
		now:     time.Now,
	}
}

// Snapshot fetches history for the symbol, computes the configured
// indicators over the full fetched window, and trims everything to the view
// range so long-window overlays are present at the left edge of the chart.
func (s *Service) Snapshot(ctx context.Context, symbol string, tf model.Timeframe) (*ChartData, error) {
	now := s.now()
	series, err := s.loadOrFetch(ctx, symbol, tf.FetchStart(now), now)
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	ind := s.cfg.Indicators
	smaFast, err := indicator.SMA(series, ind.FastSMA)
	if err != nil {
		return nil, fmt.Errorf("sma %d: %w", ind.FastSMA, err)
	}
	smaSlow, err := indicator.SMA(series, ind.SlowSMA)
	if err != nil {
		return nil, fmt.Errorf("sma %d: %w", ind.SlowSMA, err)
	}
	bands, err := indicator.BollingerBands(series, ind.BollingerSpan, ind.BollingerWidth)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	rsi, err := indicator.RSI(series, ind.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}

	viewStart := tf.ViewStart(now)
	view := series.Since(viewStart)
	if view.Len() == 0 {
		return nil, fmt.Errorf("%w: no bars inside view window", model.ErrInvalidInput)
	}

	data := &ChartData{
		Symbol:    symbol,
		Timeframe: tf,
		ViewStart: viewStart,
		Series:    view,
		SMAFast:   smaFast.Since(viewStart),
		SMASlow:   smaSlow.Since(viewStart),
		Bands: &indicator.Bands{
			Upper:  bands.Upper.Since(viewStart),
			Middle: bands.Middle.Since(viewStart),
			Lower:  bands.Lower.Since(viewStart),
		},
		RSI: rsi.Since(viewStart),
	}
	data.Metrics = s.metrics(view, data.RSI)
	data.Insights = insights(data)
	return data, nil
}

func (s *Service) metrics(view *model.PriceSeries, rsi *model.IndicatorSeries) Metrics {
	m := Metrics{
		LastPrice: view.Last().Close,
		Volume:    view.Last().Volume,
		RSI:       rsi.LastValue(),
	}
	if view.Len() >= 2 {
		m.Delta = view.Last().Close - view.Bars[view.Len()-2].Close
		vol, err := indicator.AnnualizedVolatility(view, s.cfg.Indicators.PeriodsPerYear)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", view.Symbol).Msg("volatility unavailable")
			m.Volatility = math.NaN()
		} else {
			m.Volatility = vol
		}
	} else {
		m.Volatility = math.NaN()
	}
	return m
}

// Compare fetches the symbol and its benchmark concurrently and reports
// relative performance plus correlation over the common timestamps.
func (s *Service) Compare(ctx context.Context, symbol, benchmark string, tf model.Timeframe) (*Comparison, error) {
	now := s.now()
	start := tf.ViewStart(now)

	var a, b *model.PriceSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.loadOrFetch(gctx, symbol, start, now)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = s.loadOrFetch(gctx, benchmark, start, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aligned, err := indicator.Align(a, b)
	if err != nil {
		return nil, err
	}
	corr, err := aligned.Correlation()
	if err != nil {
		return nil, err
	}
	symPct, benchPct := aligned.NormalizedPerformance()

	return &Comparison{
		Symbol:      symbol,
		Benchmark:   benchmark,
		Timeframe:   tf,
		Times:       aligned.Times,
		SymbolPct:   symPct,
		BenchPct:    benchPct,
		Correlation: corr,
	}, nil
}

// Forecast projects a least-squares trend over the view window.
func (s *Service) Forecast(ctx context.Context, symbol string, tf model.Timeframe, horizon int) (*TrendForecast, error) {
	now := s.now()
	series, err := s.loadOrFetch(ctx, symbol, tf.ViewStart(now), now)
	if err != nil {
		return nil, err
	}

	f, err := indicator.LinearForecast(series, horizon)
	if err != nil {
		return nil, err
	}
	return &TrendForecast{
		Symbol:    symbol,
		Timeframe: tf,
		Slope:     f.Slope,
		Upward:    f.Upward(),
		Times:     f.Times,
		Values:    f.Values,
	}, nil
}

// Refresh forces a fetch of the symbol's default history into the cache.
// Used by the watchlist scheduler.
func (s *Service) Refresh(ctx context.Context, symbol string) error {
	now := s.now()
	series, err := s.fetcher.FetchBars(ctx, symbol, model.Tf1Y.FetchStart(now), now)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", symbol, err)
	}
	if err := s.store.SaveSeries(series); err != nil {
		return fmt.Errorf("cache %s: %w", symbol, err)
	}
	s.logger.Info().Str("symbol", symbol).Int("bars", series.Len()).Msg("watchlist symbol refreshed")
	return nil
}

// loadOrFetch serves from the cache while it is fresh, otherwise fetches
// upstream and writes through. A stale cache is still used as a fallback
// when the upstream is unreachable.
func (s *Service) loadOrFetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	fetched, err := s.store.LastFetched(symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("cache lookup failed")
	} else if !fetched.IsZero() && s.now().Sub(fetched) < s.cfg.Cache.TTL {
		cached, err := s.store.LoadSeries(symbol, start, end)
		if err == nil && cached.Len() > 0 {
			return cached, nil
		}
	}

	series, err := s.fetcher.FetchBars(ctx, symbol, start, end)
	if err != nil {
		cached, lerr := s.store.LoadSeries(symbol, start, end)
		if lerr == nil && cached.Len() > 0 {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("upstream failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if err := s.store.SaveSeries(series); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
	}
	return series, nil
}
