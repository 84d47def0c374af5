package service

import (
	"fmt"
	"math"
)

// RSI thresholds used by the analyst notes.
const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// insights derives the plain-text analyst notes shown next to the chart:
// trend relative to the slow moving average, RSI regime, and Bollinger band
// touches.
func insights(data *ChartData) []string {
	var notes []string
	price := data.Metrics.LastPrice

	slow := data.SMASlow.LastValue()
	switch {
	case math.IsNaN(slow):
		notes = append(notes, fmt.Sprintf("insufficient history to compute %s, trend unknown", data.SMASlow.Name))
	case price > slow:
		notes = append(notes, fmt.Sprintf("price %.2f is trading above the long moving average %.2f: upward trend", price, slow))
	default:
		notes = append(notes, fmt.Sprintf("price %.2f is trading below the long moving average %.2f: downward trend", price, slow))
	}

	rsi := data.Metrics.RSI
	switch {
	case math.IsNaN(rsi):
		notes = append(notes, "RSI still warming up")
	case rsi > rsiOverbought:
		notes = append(notes, fmt.Sprintf("RSI %.1f is overbought (>%.0f): potential pullback", rsi, rsiOverbought))
	case rsi < rsiOversold:
		notes = append(notes, fmt.Sprintf("RSI %.1f is oversold (<%.0f): potential bounce", rsi, rsiOversold))
	default:
		notes = append(notes, fmt.Sprintf("RSI %.1f is neutral: healthy trading range", rsi))
	}

	upper, lower := data.Bands.Upper.LastValue(), data.Bands.Lower.LastValue()
	switch {
	case math.IsNaN(upper) || math.IsNaN(lower):
		// band not formed yet, say nothing
	case price >= upper:
		notes = append(notes, "price is touching the upper Bollinger band")
	case price <= lower:
		notes = append(notes, "price is touching the lower Bollinger band")
	default:
		notes = append(notes, "price is within the Bollinger bands")
	}

	return notes
}
