package store

import (
	"time"

	"tradeview/internal/model"
)

// NoopStore is used when no cache path is configured; every request goes to
// the upstream provider.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveSeries(_ *model.PriceSeries) error { return nil }

func (n *NoopStore) LoadSeries(symbol string, _, _ time.Time) (*model.PriceSeries, error) {
	return &model.PriceSeries{Symbol: symbol}, nil
}

func (n *NoopStore) LastFetched(_ string) (time.Time, error) { return time.Time{}, nil }
func (n *NoopStore) Purge(_ time.Time) error                 { return nil }
func (n *NoopStore) Close() error                            { return nil }
