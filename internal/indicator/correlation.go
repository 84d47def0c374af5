package indicator

import (
	"fmt"
	"math"
	"time"

	"tradeview/internal/model"
)

// AlignedCloses holds the close prices of two series restricted to their
// common timestamps, in ascending order.
type AlignedCloses struct {
	Times []time.Time
	A     []float64
	B     []float64
}

// Align intersects two series on timestamp. Both inputs must be valid.
func Align(a, b *model.PriceSeries) (*AlignedCloses, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	out := &AlignedCloses{}
	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		ta, tb := a.Bars[i].Time, b.Bars[j].Time
		switch {
		case ta.Before(tb):
			i++
		case tb.Before(ta):
			j++
		default:
			out.Times = append(out.Times, ta)
			out.A = append(out.A, a.Bars[i].Close)
			out.B = append(out.B, b.Bars[j].Close)
			i++
			j++
		}
	}
	if len(out.Times) == 0 {
		return nil, fmt.Errorf("%w: no overlapping timestamps", ErrInvalidInput)
	}
	return out, nil
}

// Correlation returns the Pearson correlation coefficient of the aligned
// closes. Needs at least two common points and variance on both sides.
func (ac *AlignedCloses) Correlation() (float64, error) {
	n := len(ac.A)
	if n < 2 {
		return 0, fmt.Errorf("%w: correlation needs at least 2 common bars, got %d", ErrInvalidInput, n)
	}

	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanA += ac.A[i]
		meanB += ac.B[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da, db := ac.A[i]-meanA, ac.B[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, fmt.Errorf("%w: constant series has no correlation", ErrInvalidInput)
	}
	return cov / math.Sqrt(varA*varB), nil
}

// NormalizedPerformance rebases both aligned close series to percent change
// from their first common bar, for relative-performance overlays.
func (ac *AlignedCloses) NormalizedPerformance() (a, b []float64) {
	a = make([]float64, len(ac.A))
	b = make([]float64, len(ac.B))
	baseA, baseB := ac.A[0], ac.B[0]
	for i := range ac.A {
		a[i] = (ac.A[i]/baseA - 1) * 100
		b[i] = (ac.B[i]/baseB - 1) * 100
	}
	return a, b
}
