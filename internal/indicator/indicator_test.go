package indicator

import (
	"testing"
	"time"

	"tradeview/internal/model"
)

// seriesFromCloses builds a daily series where only the closes matter.
func seriesFromCloses(tb testing.TB, closes ...float64) *model.PriceSeries {
	tb.Helper()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars, FetchedAt: start}
}
