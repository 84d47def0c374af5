package indicator

import (
	"fmt"
	"math"

	"tradeview/internal/model"
)

// Bands holds the three Bollinger band series, each aligned to the source.
type Bands struct {
	Upper  *model.IndicatorSeries
	Middle *model.IndicatorSeries
	Lower  *model.IndicatorSeries
}

// BollingerBands computes a rolling mean band with upper and lower bounds at
// k rolling sample standard deviations. Warm-up positions are absent in all
// three series.
func BollingerBands(series *model.PriceSeries, window int, k float64) (*Bands, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: bollinger window must be positive, got %d", ErrInvalidParameter, window)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: bollinger band width must be positive, got %g", ErrInvalidParameter, k)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	b := &Bands{
		Upper:  model.NewIndicatorSeries("bb_upper", series),
		Middle: model.NewIndicatorSeries("bb_middle", series),
		Lower:  model.NewIndicatorSeries("bb_lower", series),
	}
	if window > series.Len() {
		return b, nil
	}

	closes := series.Closes()
	for i := window - 1; i < len(closes); i++ {
		win := closes[i-window+1 : i+1]
		mean := 0.0
		for _, c := range win {
			mean += c
		}
		mean /= float64(window)
		sd := sampleStdDevAround(win, mean)

		b.Middle.Values[i] = mean
		b.Upper.Values[i] = mean + k*sd
		b.Lower.Values[i] = mean - k*sd
	}
	return b, nil
}

func sampleStdDevAround(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs) - 1)
	return math.Sqrt(variance)
}
