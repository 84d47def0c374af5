// Package export serializes dashboard tables to delimited and spreadsheet
// formats. Column order is stable: the bar fields first, then the indicator
// overlays in the order the service lists them. Timestamps are ISO-8601 and
// absent indicator values become empty cells.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"tradeview/internal/model"
)

var barHeaders = []string{"time", "open", "high", "low", "close", "volume"}

// Table is a flattened series-plus-indicators view ready for serialization.
type Table struct {
	Headers []string
	Rows    [][]string
}

// BuildTable flattens a price series and its aligned indicator overlays into
// one row per timestamp.
func BuildTable(series *model.PriceSeries, indicators []*model.IndicatorSeries) (*Table, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	for _, ind := range indicators {
		if ind.Len() != series.Len() {
			return nil, fmt.Errorf("indicator %s has %d values for %d bars", ind.Name, ind.Len(), series.Len())
		}
	}

	t := &Table{Headers: append([]string{}, barHeaders...)}
	for _, ind := range indicators {
		t.Headers = append(t.Headers, ind.Name)
	}

	t.Rows = make([][]string, 0, series.Len())
	for i, b := range series.Bars {
		row := []string{
			b.Time.UTC().Format(time.RFC3339),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		for _, ind := range indicators {
			if ind.Present(i) {
				row = append(row, formatFloat(ind.Values[i]))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CSVOptions configures CSV writing behavior.
type CSVOptions struct {
	BOMPrefix bool // add UTF-8 BOM for Excel compatibility
}

// WriteCSV serializes the table to w.
func WriteCSV(w io.Writer, table *Table, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
