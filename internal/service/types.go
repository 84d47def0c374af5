package service

import (
	"time"

	"tradeview/internal/indicator"
	"tradeview/internal/model"
)

// Metrics are the headline numbers shown above the chart.
type Metrics struct {
	LastPrice  float64
	Delta      float64 // change vs previous close
	Volatility float64 // annualized, over the view window
	RSI        float64 // NaN while warming up
	Volume     float64
}

// ChartData is everything one dashboard view needs for a symbol: the visible
// bars, the indicator overlays aligned to them, headline metrics, and
// analyst notes.
type ChartData struct {
	Symbol    string
	Timeframe model.Timeframe
	ViewStart time.Time
	Series    *model.PriceSeries
	SMAFast   *model.IndicatorSeries
	SMASlow   *model.IndicatorSeries
	Bands     *indicator.Bands
	RSI       *model.IndicatorSeries
	Metrics   Metrics
	Insights  []string
}

// IndicatorSeriesList returns the overlays in stable export order.
func (c *ChartData) IndicatorSeriesList() []*model.IndicatorSeries {
	return []*model.IndicatorSeries{
		c.SMAFast, c.SMASlow, c.Bands.Upper, c.Bands.Lower, c.RSI,
	}
}

// Comparison is the relative-performance view of two symbols.
type Comparison struct {
	Symbol      string
	Benchmark   string
	Timeframe   model.Timeframe
	Times       []time.Time
	SymbolPct   []float64
	BenchPct    []float64
	Correlation float64
}

// TrendForecast is the linear projection view.
type TrendForecast struct {
	Symbol    string
	Timeframe model.Timeframe
	Slope     float64
	Upward    bool
	Times     []time.Time
	Values    []float64
}
