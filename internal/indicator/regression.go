package indicator

import (
	"fmt"
	"time"

	"tradeview/internal/model"
)

// Forecast is a least-squares trend line fitted to a close series and
// projected forward.
type Forecast struct {
	Slope     float64
	Intercept float64
	Times     []time.Time
	Values    []float64
}

// Upward reports whether the fitted trend points up.
func (f *Forecast) Upward() bool { return f.Slope > 0 }

// LinearForecast fits close = slope*i + intercept over the bar index and
// extrapolates horizon daily steps past the last bar.
func LinearForecast(series *model.PriceSeries, horizon int) (*Forecast, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: forecast horizon must be positive, got %d", ErrInvalidParameter, horizon)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if series.Len() < 2 {
		return nil, fmt.Errorf("%w: forecast needs at least 2 bars, got %d", ErrInvalidInput, series.Len())
	}

	n := float64(series.Len())
	var sumX, sumY, sumXY, sumXX float64
	for i, b := range series.Bars {
		x := float64(i)
		sumX += x
		sumY += b.Close
		sumXY += x * b.Close
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, fmt.Errorf("%w: degenerate series for regression", ErrInvalidInput)
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	last := series.Last().Time
	f := &Forecast{
		Slope:     slope,
		Intercept: intercept,
		Times:     make([]time.Time, horizon),
		Values:    make([]float64, horizon),
	}
	for i := 0; i < horizon; i++ {
		f.Times[i] = last.AddDate(0, 0, i+1)
		f.Values[i] = slope*float64(series.Len()+i) + intercept
	}
	return f, nil
}
