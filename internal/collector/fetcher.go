package collector

import (
	"context"
	"errors"
	"time"

	"tradeview/internal/model"
)

// ErrSymbolNotFound means the upstream does not know the requested symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// ErrNoData means the upstream knows the symbol but returned no bars for the
// requested range.
var ErrNoData = errors.New("no data returned")

// Fetcher supplies daily price history for a symbol and date range.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}
