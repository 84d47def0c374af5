package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeview/internal/model"
)

func TestAlign_Intersection(t *testing.T) {
	a := seriesFromCloses(t, 1, 2, 3, 4)
	b := seriesFromCloses(t, 10, 20, 30, 40)
	// Shift b forward one day so only three timestamps overlap.
	for i := range b.Bars {
		b.Bars[i].Time = b.Bars[i].Time.AddDate(0, 0, 1)
	}

	aligned, err := Align(a, b)
	require.NoError(t, err)
	require.Len(t, aligned.Times, 3)
	assert.Equal(t, []float64{2, 3, 4}, aligned.A)
	assert.Equal(t, []float64{10, 20, 30}, aligned.B)
}

func TestAlign_NoOverlap(t *testing.T) {
	a := seriesFromCloses(t, 1, 2)
	b := seriesFromCloses(t, 3, 4)
	for i := range b.Bars {
		b.Bars[i].Time = b.Bars[i].Time.Add(12 * time.Hour)
	}

	_, err := Align(a, b)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCorrelation_PerfectPositiveAndNegative(t *testing.T) {
	a := seriesFromCloses(t, 1, 2, 3, 4, 5)
	up := seriesFromCloses(t, 10, 20, 30, 40, 50)
	down := seriesFromCloses(t, 50, 40, 30, 20, 10)

	aligned, err := Align(a, up)
	require.NoError(t, err)
	corr, err := aligned.Correlation()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr, 1e-12)

	aligned, err = Align(a, down)
	require.NoError(t, err)
	corr, err = aligned.Correlation()
	require.NoError(t, err)
	assert.InDelta(t, -1.0, corr, 1e-12)
}

func TestCorrelation_ConstantSeries(t *testing.T) {
	a := seriesFromCloses(t, 1, 2, 3)
	flat := seriesFromCloses(t, 7, 7, 7)

	aligned, err := Align(a, flat)
	require.NoError(t, err)
	_, err = aligned.Correlation()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizedPerformance(t *testing.T) {
	a := seriesFromCloses(t, 100, 110, 120)
	b := seriesFromCloses(t, 50, 45, 55)

	aligned, err := Align(a, b)
	require.NoError(t, err)
	pa, pb := aligned.NormalizedPerformance()

	assert.InDelta(t, 0.0, pa[0], 1e-12)
	assert.InDelta(t, 10.0, pa[1], 1e-12)
	assert.InDelta(t, 20.0, pa[2], 1e-12)
	assert.InDelta(t, 0.0, pb[0], 1e-12)
	assert.InDelta(t, -10.0, pb[1], 1e-12)
	assert.InDelta(t, 10.0, pb[2], 1e-12)
}

// Both series must be valid before alignment.
func TestAlign_RejectsMalformed(t *testing.T) {
	good := seriesFromCloses(t, 1, 2, 3)
	bad := &model.PriceSeries{Symbol: "BAD"}

	_, err := Align(good, bad)
	require.ErrorIs(t, err, ErrInvalidInput)
}
