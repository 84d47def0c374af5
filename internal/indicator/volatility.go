package indicator

import (
	"fmt"
	"math"

	"tradeview/internal/model"
)

// AnnualizedVolatility estimates volatility from logarithmic close-to-close
// returns, scaled by the square root of periodsPerYear (252 for daily bars).
//
// The standard deviation is the sample deviation of the returns (Bessel's
// correction, degrees of freedom = number of returns - 1). With a single
// return the deviation is taken as zero rather than undefined.
func AnnualizedVolatility(series *model.PriceSeries, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %d", ErrInvalidParameter, periodsPerYear)
	}
	if err := series.Validate(); err != nil {
		return 0, err
	}
	if series.Len() < 2 {
		return 0, fmt.Errorf("%w: volatility needs at least 2 bars, got %d", ErrInvalidInput, series.Len())
	}

	returns := make([]float64, 0, series.Len()-1)
	for i, b := range series.Bars {
		if b.Close <= 0 {
			return 0, fmt.Errorf("%w: non-positive close at bar %d", ErrInvalidInput, i)
		}
		if i > 0 {
			returns = append(returns, math.Log(b.Close/series.Bars[i-1].Close))
		}
	}

	sigma := sampleStdDev(returns)
	return sigma * math.Sqrt(float64(periodsPerYear)), nil
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs) - 1)
	return math.Sqrt(variance)
}
