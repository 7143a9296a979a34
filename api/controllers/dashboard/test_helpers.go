package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/enums"
)

func fixtureOrder(t *testing.T, orderID, customerID, category, state string, spend float64, score *int, approved string) insights.Order {
	t.Helper()

	order := insights.Order{
		OrderID:       orderID,
		CustomerID:    customerID,
		Category:      category,
		CustomerState: state,
		Spend:         decimal.NewFromFloat(spend),
		ReviewScore:   score,
		Status:        enums.OrderStatusDelivered,
	}
	if approved != "" {
		ts, err := time.Parse("2006-01-02 15:04:05", approved)
		if err != nil {
			t.Fatalf("bad timestamp fixture %q: %v", approved, err)
		}
		ts = ts.UTC()
		order.ApprovedAt = &ts
		order.PurchasedAt = ts.Add(-time.Hour)
	}
	return order
}

func intPtr(v int) *int {
	return &v
}

func newTestService(t *testing.T) insights.Service {
	t.Helper()

	orders := []insights.Order{
		fixtureOrder(t, "o1", "c1", "toys", "SP", 100, intPtr(5), "2018-01-01 08:00:00"),
		fixtureOrder(t, "o2", "c2", "toys", "SP", 200, intPtr(4), "2018-01-01 17:30:00"),
		fixtureOrder(t, "o3", "c3", "bed_bath_table", "RJ", 50, intPtr(5), "2018-01-02 09:15:00"),
	}
	geos := []insights.Geolocation{
		{CustomerUniqueID: "g1", Lat: -23.55, Lng: -46.63, State: "SP"},
		{CustomerUniqueID: "g1", Lat: -22.90, Lng: -43.20, State: "RJ"},
	}

	service, err := insights.NewService(insights.ServiceParams{Snapshot: insights.NewSnapshot(orders, geos)})
	if err != nil {
		t.Fatalf("building test service: %v", err)
	}
	return service
}

func newEmptyService(t *testing.T) insights.Service {
	t.Helper()

	service, err := insights.NewService(insights.ServiceParams{Snapshot: insights.NewSnapshot(nil, nil)})
	if err != nil {
		t.Fatalf("building test service: %v", err)
	}
	return service
}
