package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput marks a series that cannot be computed on: empty, out of
// order, duplicated timestamps, or negative fields.
var ErrInvalidInput = errors.New("invalid input series")

// PriceBar is a single candlestick observation. Immutable once recorded.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the ordered bar history for one symbol,
// ascending by timestamp with no duplicates.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// Validate checks the invariants every computation relies on: at least one
// bar, strictly increasing timestamps, and non-negative fields.
func (s *PriceSeries) Validate() error {
	if s == nil || len(s.Bars) == 0 {
		return fmt.Errorf("%w: empty series", ErrInvalidInput)
	}
	for i, b := range s.Bars {
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 || b.Volume < 0 {
			return fmt.Errorf("%w: negative field at bar %d", ErrInvalidInput, i)
		}
		if i > 0 && !s.Bars[i-1].Time.Before(b.Time) {
			return fmt.Errorf("%w: timestamps not strictly increasing at bar %d", ErrInvalidInput, i)
		}
	}
	return nil
}

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. Callers validate non-emptiness first.
func (s *PriceSeries) Last() PriceBar { return s.Bars[len(s.Bars)-1] }

// Since returns a shallow view of the series trimmed to bars at or after t.
func (s *PriceSeries) Since(t time.Time) *PriceSeries {
	i := 0
	for i < len(s.Bars) && s.Bars[i].Time.Before(t) {
		i++
	}
	return &PriceSeries{Symbol: s.Symbol, Bars: s.Bars[i:], FetchedAt: s.FetchedAt}
}

// IndicatorSeries is a derived series aligned one-to-one with the bars it was
// computed from. Warm-up positions hold NaN: no value exists there, which is
// not the same as zero.
type IndicatorSeries struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// NewIndicatorSeries allocates an all-absent series aligned to src.
func NewIndicatorSeries(name string, src *PriceSeries) *IndicatorSeries {
	times := make([]time.Time, len(src.Bars))
	values := make([]float64, len(src.Bars))
	for i, b := range src.Bars {
		times[i] = b.Time
		values[i] = math.NaN()
	}
	return &IndicatorSeries{Name: name, Times: times, Values: values}
}

// Present reports whether index i carries a value.
func (is *IndicatorSeries) Present(i int) bool {
	return i >= 0 && i < len(is.Values) && !math.IsNaN(is.Values[i])
}

// PresentCount returns how many positions carry a value.
func (is *IndicatorSeries) PresentCount() int {
	n := 0
	for i := range is.Values {
		if !math.IsNaN(is.Values[i]) {
			n++
		}
	}
	return n
}

// LastValue returns the most recent present value, or NaN if none exists.
func (is *IndicatorSeries) LastValue() float64 {
	for i := len(is.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(is.Values[i]) {
			return is.Values[i]
		}
	}
	return math.NaN()
}

// Len returns the series length, always equal to the source bar count.
func (is *IndicatorSeries) Len() int { return len(is.Values) }

// Since returns a view trimmed to points at or after t.
func (is *IndicatorSeries) Since(t time.Time) *IndicatorSeries {
	i := 0
	for i < len(is.Times) && is.Times[i].Before(t) {
		i++
	}
	return &IndicatorSeries{Name: is.Name, Times: is.Times[i:], Values: is.Values[i:]}
}
