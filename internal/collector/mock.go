package collector

import (
	"context"
	"time"

	"tradeview/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Series    map[string]*model.PriceSeries
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[symbol]; ok {
		return s.Since(start), nil
	}
	return GenerateSeries(symbol, m.BasePrice, start, end), nil
}

// GenerateSeries produces a deterministic synthetic daily series drifting
// gently around basePrice, weekends skipped.
func GenerateSeries(symbol string, basePrice float64, start, end time.Time) *model.PriceSeries {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.PriceBar
	for d, i := start, 0; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.001*float64(i%21-10))
		bars = append(bars, model.PriceBar{
			Time:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1_000_000,
		})
		i++
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now().UTC()}
}
