package model

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is a dashboard view range selector.
type Timeframe string

const (
	Tf1M  Timeframe = "1M"
	Tf3M  Timeframe = "3M"
	Tf6M  Timeframe = "6M"
	TfYTD Timeframe = "YTD"
	Tf1Y  Timeframe = "1Y"
	Tf3Y  Timeframe = "3Y"
	Tf5Y  Timeframe = "5Y"
	TfMax Timeframe = "MAX"
)

// WarmupPadDays is fetched before the view start so long-window indicators
// already have history at the left edge of the chart.
const WarmupPadDays = 300

// ParseTimeframe maps a user-supplied range label to a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(strings.ToUpper(strings.TrimSpace(s))) {
	case Tf1M:
		return Tf1M, nil
	case Tf3M:
		return Tf3M, nil
	case Tf6M:
		return Tf6M, nil
	case TfYTD:
		return TfYTD, nil
	case Tf1Y, "":
		return Tf1Y, nil
	case Tf3Y:
		return Tf3Y, nil
	case Tf5Y:
		return Tf5Y, nil
	case TfMax:
		return TfMax, nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// ViewStart returns the first date shown on the chart for this timeframe.
func (tf Timeframe) ViewStart(now time.Time) time.Time {
	switch tf {
	case Tf1M:
		return now.AddDate(0, 0, -30)
	case Tf3M:
		return now.AddDate(0, 0, -90)
	case Tf6M:
		return now.AddDate(0, 0, -180)
	case TfYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case Tf1Y:
		return now.AddDate(-1, 0, 0)
	case Tf3Y:
		return now.AddDate(-3, 0, 0)
	case Tf5Y:
		return now.AddDate(-5, 0, 0)
	default: // TfMax
		return time.Date(1980, time.January, 1, 0, 0, 0, 0, now.Location())
	}
}

// FetchStart returns the first date actually requested upstream: the view
// start pushed back by the warm-up pad.
func (tf Timeframe) FetchStart(now time.Time) time.Time {
	return tf.ViewStart(now).AddDate(0, 0, -WarmupPadDays)
}
