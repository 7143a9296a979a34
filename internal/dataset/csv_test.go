package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/enums"
)

const ordersFixture = `order_id,customer_id,product_id,product_category_name_english,price,freight_value,review_score,order_status,customer_state,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date,shipping_limit_date
o1,c1,p1,bed_bath_table,129.90,21.15,5,delivered,SP,2018-01-01 07:45:00,2018-01-01 08:00:00,2018-01-02 10:00:00,2018-01-05 14:00:00,2018-01-10 00:00:00,2018-01-03 08:00:00
o2,c2,p2,toys,45.00,,,shipped,RJ,2018-01-02 09:00:00,,,,2018-01-12 00:00:00,
`

const geosFixture = `customer_unique_id,geolocation_lat,geolocation_lng,geolocation_city,geolocation_state
g1,-23.55,-46.63,sao paulo,SP
g1,-22.90,-43.20,rio de janeiro,RJ
g2,-30.03,-51.23,porto alegre,RS
`

func TestParseOrders(t *testing.T) {
	orders, skipped, err := parseOrders(strings.NewReader(ordersFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	first := orders[0]
	if first.OrderID != "o1" || first.CustomerID != "c1" || first.Category != "bed_bath_table" {
		t.Fatalf("unexpected first order: %+v", first)
	}
	if !first.Spend.Equal(decimal.RequireFromString("151.05")) {
		t.Fatalf("expected spend to include freight, got %s", first.Spend)
	}
	if first.ReviewScore == nil || *first.ReviewScore != 5 {
		t.Fatalf("unexpected review score: %v", first.ReviewScore)
	}
	if first.Status != enums.OrderStatusDelivered {
		t.Fatalf("unexpected status: %s", first.Status)
	}
	if first.ApprovedAt == nil || !first.ApprovedAt.Equal(time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected approval timestamp: %v", first.ApprovedAt)
	}
	if first.DeliveredAt == nil || first.CarrierHandoffAt == nil || first.ShippingLimitAt == nil {
		t.Fatalf("expected delivery timestamps parsed: %+v", first)
	}

	second := orders[1]
	if !second.Spend.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("expected a missing freight value to count as zero, got %s", second.Spend)
	}
	if second.ApprovedAt != nil {
		t.Fatal("expected nil approval for the unapproved order")
	}
	if second.ReviewScore != nil {
		t.Fatal("expected nil review score for the unreviewed order")
	}
	if second.DeliveredAt != nil || second.ShippingLimitAt != nil {
		t.Fatal("expected empty optional timestamps to stay nil")
	}
}

func TestParseOrdersSkipsMalformedRows(t *testing.T) {
	fixture := strings.Join([]string{
		"order_id,customer_id,product_id,product_category_name_english,price,freight_value,review_score,order_status,customer_state,order_purchase_timestamp,order_approved_at",
		"o1,c1,p1,toys,10.00,2.50,4,delivered,SP,2018-01-01 07:45:00,2018-01-01 08:00:00",
		",c2,p2,toys,10.00,2.50,4,delivered,SP,2018-01-01 07:45:00,2018-01-01 08:00:00",
		"o3,c3,p3,toys,not-a-price,2.50,4,delivered,SP,2018-01-01 07:45:00,2018-01-01 08:00:00",
		"o4,c4,p4,toys,10.00,not-a-freight,4,delivered,SP,2018-01-01 07:45:00,2018-01-01 08:00:00",
		"o5,c5,p5,toys,10.00,2.50,4,not-a-status,SP,2018-01-01 07:45:00,2018-01-01 08:00:00",
		"o6,c6,p6,toys,10.00,2.50,4,delivered,SP,not-a-time,2018-01-01 08:00:00",
		"o7,c7,p7,toys,10.00,2.50,4,delivered,SP,2018-01-01 07:45:00,not-a-time",
	}, "\n")

	orders, skipped, err := parseOrders(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != "o1" {
		t.Fatalf("expected only the valid row to survive, got %+v", orders)
	}
	if !orders[0].Spend.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected spend of price plus freight, got %s", orders[0].Spend)
	}
	if skipped != 6 {
		t.Fatalf("expected 6 skipped rows, got %d", skipped)
	}
}

func TestParseOrdersRejectsMissingColumns(t *testing.T) {
	fixture := "order_id,customer_id\no1,c1\n"
	if _, _, err := parseOrders(strings.NewReader(fixture)); err == nil {
		t.Fatal("expected an error for a header without required columns")
	}
}

func TestParseOrdersFloatReviewScore(t *testing.T) {
	fixture := "order_id,customer_id,price,review_score,order_status,order_purchase_timestamp\n" +
		"o1,c1,10.00,4.0,delivered,2018-01-01 07:45:00\n"
	orders, skipped, err := parseOrders(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 || len(orders) != 1 {
		t.Fatalf("expected one parsed row, got %d orders %d skipped", len(orders), skipped)
	}
	if orders[0].ReviewScore == nil || *orders[0].ReviewScore != 4 {
		t.Fatalf("unexpected review score: %v", orders[0].ReviewScore)
	}
}

func TestParseGeolocations(t *testing.T) {
	geos, skipped, err := parseGeolocations(strings.NewReader(geosFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	// duplicates survive here; the snapshot dedupes
	if len(geos) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(geos))
	}
	if geos[0].CustomerUniqueID != "g1" || geos[0].Lat != -23.55 || geos[0].State != "SP" {
		t.Fatalf("unexpected first row: %+v", geos[0])
	}
}

func TestParseGeolocationsSkipsBadCoordinates(t *testing.T) {
	fixture := "customer_unique_id,geolocation_lat,geolocation_lng\n" +
		"g1,not-a-number,-46.63\n" +
		",1.0,2.0\n" +
		"g2,-30.03,-51.23\n"
	geos, skipped, err := parseGeolocations(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(geos) != 1 || geos[0].CustomerUniqueID != "g2" {
		t.Fatalf("expected only the valid row, got %+v", geos)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestCSVSourceLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "df.csv")
	geosPath := filepath.Join(dir, "geolocation.csv")
	if err := os.WriteFile(ordersPath, []byte(ordersFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(geosPath, []byte(geosFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	source := NewCSVSource(config.DatasetConfig{
		OrdersURL:      ordersPath,
		GeolocationURL: geosPath,
		HTTPTimeout:    time.Second,
	}, nil)

	result, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Orders) != 2 || len(result.Geolocations) != 3 {
		t.Fatalf("unexpected result sizes: %d orders, %d geos", len(result.Orders), len(result.Geolocations))
	}
	if result.SkippedOrders != 0 || result.SkippedGeos != 0 {
		t.Fatalf("unexpected skip counts: %+v", result)
	}
}

func TestCSVSourceLoadMissingFile(t *testing.T) {
	source := NewCSVSource(config.DatasetConfig{
		OrdersURL:      filepath.Join(t.TempDir(), "missing.csv"),
		GeolocationURL: filepath.Join(t.TempDir(), "missing.csv"),
		HTTPTimeout:    time.Second,
	}, nil)

	if _, err := source.Load(context.Background()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
