package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearForecast_PerfectLine(t *testing.T) {
	series := seriesFromCloses(t, 1, 2, 3, 4, 5)

	f, err := LinearForecast(series, 3)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, f.Slope, 1e-12)
	assert.InDelta(t, 1.0, f.Intercept, 1e-12)
	assert.True(t, f.Upward())

	require.Len(t, f.Values, 3)
	assert.InDelta(t, 6.0, f.Values[0], 1e-12)
	assert.InDelta(t, 7.0, f.Values[1], 1e-12)
	assert.InDelta(t, 8.0, f.Values[2], 1e-12)

	last := series.Last().Time
	for i, ts := range f.Times {
		assert.Equal(t, last.AddDate(0, 0, i+1), ts)
	}
}

func TestLinearForecast_Downtrend(t *testing.T) {
	series := seriesFromCloses(t, 50, 40, 30, 20)

	f, err := LinearForecast(series, 1)
	require.NoError(t, err)
	assert.Negative(t, f.Slope)
	assert.False(t, f.Upward())
}

func TestLinearForecast_Errors(t *testing.T) {
	series := seriesFromCloses(t, 1, 2, 3)

	_, err := LinearForecast(series, 0)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = LinearForecast(seriesFromCloses(t, 5), 10)
	require.ErrorIs(t, err, ErrInvalidInput)
}
