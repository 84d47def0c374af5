package store

import (
	"time"

	"tradeview/internal/model"
)

// Store caches fetched price history so repeated dashboard requests and the
// watchlist refresher do not hammer the upstream provider.
type Store interface {
	SaveSeries(series *model.PriceSeries) error
	LoadSeries(symbol string, from, to time.Time) (*model.PriceSeries, error)
	LastFetched(symbol string) (time.Time, error)
	Purge(olderThan time.Time) error
	Close() error
}
