package indicator

import (
	"fmt"

	"tradeview/internal/model"
)

// RSI computes the relative strength index over rolling means of gains and
// losses (Cutler's variant). Position i is present once `period` close
// changes are available, so the warm-up covers the first `period` bars.
// A flat window with no losses reads 100.
func RSI(series *model.PriceSeries, period int) (*model.IndicatorSeries, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: rsi period must be positive, got %d", ErrInvalidParameter, period)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	out := model.NewIndicatorSeries(fmt.Sprintf("rsi_%d", period), series)
	closes := series.Closes()
	if len(closes) < period+1 {
		return out, nil
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out.Values[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out.Values[i] = 100 - 100/(1+rs)
	}
	return out, nil
}
