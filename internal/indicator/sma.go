package indicator

import (
	"fmt"

	"tradeview/internal/model"
)

// SMA computes the simple moving average of the close prices over the given
// window. The result is aligned to the input: position i (i >= window-1)
// holds the mean of closes [i-window+1, i], earlier positions are absent.
// A window longer than the series yields an all-absent series, not an error.
func SMA(series *model.PriceSeries, window int) (*model.IndicatorSeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: sma window must be positive, got %d", ErrInvalidParameter, window)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	out := model.NewIndicatorSeries(fmt.Sprintf("sma_%d", window), series)
	if window > series.Len() {
		return out, nil
	}

	// Rolling sum over the closes.
	sum := 0.0
	for i, b := range series.Bars {
		sum += b.Close
		if i >= window {
			sum -= series.Bars[i-window].Close
		}
		if i >= window-1 {
			out.Values[i] = sum / float64(window)
		}
	}
	return out, nil
}
