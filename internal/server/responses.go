package server

import (
	"math"
	"time"

	"tradeview/internal/model"
	"tradeview/internal/service"
)

// barDTO is one candlestick in a JSON response.
type barDTO struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// pointDTO is one indicator observation; absent warm-up values serialize as
// null rather than zero.
type pointDTO struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

type seriesDTO struct {
	Name   string     `json:"name"`
	Points []pointDTO `json:"points"`
}

type metricsDTO struct {
	LastPrice  float64  `json:"last_price"`
	Delta      float64  `json:"delta"`
	Volatility *float64 `json:"volatility"`
	RSI        *float64 `json:"rsi"`
	Volume     float64  `json:"volume"`
}

type chartResponse struct {
	Symbol     string      `json:"symbol"`
	Timeframe  string      `json:"timeframe"`
	ViewStart  time.Time   `json:"view_start"`
	Bars       []barDTO    `json:"bars"`
	Indicators []seriesDTO `json:"indicators"`
	Metrics    metricsDTO  `json:"metrics"`
	Insights   []string    `json:"insights"`
}

type compareResponse struct {
	Symbol      string      `json:"symbol"`
	Benchmark   string      `json:"benchmark"`
	Timeframe   string      `json:"timeframe"`
	Times       []time.Time `json:"times"`
	SymbolPct   []float64   `json:"symbol_pct"`
	BenchPct    []float64   `json:"benchmark_pct"`
	Correlation float64     `json:"correlation"`
}

type forecastResponse struct {
	Symbol    string      `json:"symbol"`
	Timeframe string      `json:"timeframe"`
	Slope     float64     `json:"slope"`
	Upward    bool        `json:"upward"`
	Times     []time.Time `json:"times"`
	Values    []float64   `json:"values"`
}

type errResponse struct {
	Error string `json:"error"`
}

func optional(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func toSeriesDTO(is *model.IndicatorSeries) seriesDTO {
	dto := seriesDTO{Name: is.Name, Points: make([]pointDTO, is.Len())}
	for i := range is.Values {
		dto.Points[i] = pointDTO{Time: is.Times[i], Value: optional(is.Values[i])}
	}
	return dto
}

func toChartResponse(data *service.ChartData) *chartResponse {
	resp := &chartResponse{
		Symbol:    data.Symbol,
		Timeframe: string(data.Timeframe),
		ViewStart: data.ViewStart,
		Bars:      make([]barDTO, data.Series.Len()),
		Metrics: metricsDTO{
			LastPrice:  data.Metrics.LastPrice,
			Delta:      data.Metrics.Delta,
			Volatility: optional(data.Metrics.Volatility),
			RSI:        optional(data.Metrics.RSI),
			Volume:     data.Metrics.Volume,
		},
		Insights: data.Insights,
	}
	for i, b := range data.Series.Bars {
		resp.Bars[i] = barDTO{Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	for _, is := range data.IndicatorSeriesList() {
		resp.Indicators = append(resp.Indicators, toSeriesDTO(is))
	}
	return resp
}
