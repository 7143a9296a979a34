// Package dataset loads the order and geolocation tables that back the
// insights engine, from exported CSV files or from the analytics warehouse.
package dataset

import (
	"context"

	"github.com/atheash/commerce-insights/internal/insights"
)

// Result is one complete load of the dataset plus the per-table counts of
// rows that failed to parse and were dropped.
type Result struct {
	Orders        []insights.Order
	Geolocations  []insights.Geolocation
	SkippedOrders int
	SkippedGeos   int
}

// Source produces a full dataset load. Implementations are safe to call
// repeatedly; every call re-reads the backing store.
type Source interface {
	Load(ctx context.Context) (*Result, error)
}
