package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/enums"
	"github.com/atheash/commerce-insights/pkg/logger"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// CSVSource reads the exported order and geolocation tables from local
// files or HTTP URLs. Rows that fail to parse are dropped and counted
// rather than failing the whole load.
type CSVSource struct {
	ordersRef string
	geosRef   string
	client    *http.Client
	logg      *logger.Logger
}

// NewCSVSource builds a source from the dataset configuration.
func NewCSVSource(cfg config.DatasetConfig, logg *logger.Logger) *CSVSource {
	return &CSVSource{
		ordersRef: cfg.OrdersURL,
		geosRef:   cfg.GeolocationURL,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		logg:      logg,
	}
}

// Load reads both tables in full.
func (s *CSVSource) Load(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := s.withReader(ctx, s.ordersRef, func(r io.Reader) error {
		orders, skipped, err := parseOrders(r)
		if err != nil {
			return err
		}
		result.Orders = orders
		result.SkippedOrders = skipped
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading orders table: %w", err)
	}

	if err := s.withReader(ctx, s.geosRef, func(r io.Reader) error {
		geos, skipped, err := parseGeolocations(r)
		if err != nil {
			return err
		}
		result.Geolocations = geos
		result.SkippedGeos = skipped
		return nil
	}); err != nil {
		return nil, fmt.Errorf("loading geolocation table: %w", err)
	}

	if s.logg != nil && (result.SkippedOrders > 0 || result.SkippedGeos > 0) {
		s.logg.Warn(
			s.logg.WithFields(ctx, map[string]any{
				"skipped_orders": result.SkippedOrders,
				"skipped_geos":   result.SkippedGeos,
			}),
			"dropped unparsable dataset rows",
		)
	}
	return result, nil
}

func (s *CSVSource) withReader(ctx context.Context, ref string, fn func(io.Reader) error) error {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetching %s: status %d", ref, resp.StatusCode)
		}
		return fn(resp.Body)
	}

	file, err := os.Open(ref)
	if err != nil {
		return err
	}
	defer file.Close()
	return fn(file)
}

type columnIndex map[string]int

func (c columnIndex) value(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func readHeader(reader *csv.Reader, required ...string) (columnIndex, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := columnIndex{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return index, nil
}

func parseOrders(r io.Reader) ([]insights.Order, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	index, err := readHeader(reader, "order_id", "customer_id", "order_status", "order_purchase_timestamp", "price")
	if err != nil {
		return nil, 0, err
	}

	var orders []insights.Order
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		order, ok := parseOrderRecord(index, record)
		if !ok {
			skipped++
			continue
		}
		orders = append(orders, order)
	}
	return orders, skipped, nil
}

func parseOrderRecord(index columnIndex, record []string) (insights.Order, bool) {
	order := insights.Order{
		OrderID:       index.value(record, "order_id"),
		CustomerID:    index.value(record, "customer_id"),
		ProductID:     index.value(record, "product_id"),
		Category:      orderCategory(index, record),
		CustomerState: index.value(record, "customer_state"),
	}
	if order.OrderID == "" || order.CustomerID == "" {
		return insights.Order{}, false
	}

	status, err := enums.ParseOrderStatus(index.value(record, "order_status"))
	if err != nil {
		return insights.Order{}, false
	}
	order.Status = status

	price, err := decimal.NewFromString(index.value(record, "price"))
	if err != nil {
		return insights.Order{}, false
	}
	// spend is the item price plus its freight share; older exports omit
	// the freight column entirely
	freight := decimal.Zero
	if raw := index.value(record, "freight_value"); raw != "" {
		freight, err = decimal.NewFromString(raw)
		if err != nil {
			return insights.Order{}, false
		}
	}
	order.Spend = price.Add(freight)

	purchased, err := parseTimestamp(index.value(record, "order_purchase_timestamp"))
	if err != nil || purchased == nil {
		return insights.Order{}, false
	}
	order.PurchasedAt = *purchased

	optional := []struct {
		column string
		target **time.Time
	}{
		{"order_approved_at", &order.ApprovedAt},
		{"order_delivered_carrier_date", &order.CarrierHandoffAt},
		{"order_delivered_customer_date", &order.DeliveredAt},
		{"order_estimated_delivery_date", &order.EstimatedDeliveryAt},
		{"shipping_limit_date", &order.ShippingLimitAt},
	}
	for _, field := range optional {
		ts, err := parseTimestamp(index.value(record, field.column))
		if err != nil {
			return insights.Order{}, false
		}
		*field.target = ts
	}

	if raw := index.value(record, "review_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			// review_score arrives as a float for some exports
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return insights.Order{}, false
			}
			score = int(f)
		}
		order.ReviewScore = &score
	}

	return order, true
}

// orderCategory prefers the translated category column when the export
// carries one.
func orderCategory(index columnIndex, record []string) string {
	if v := index.value(record, "product_category_name_english"); v != "" {
		return v
	}
	return index.value(record, "product_category_name")
}

func parseTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(csvTimeLayout, raw)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}

func parseGeolocations(r io.Reader) ([]insights.Geolocation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	index, err := readHeader(reader, "customer_unique_id", "geolocation_lat", "geolocation_lng")
	if err != nil {
		return nil, 0, err
	}

	var geos []insights.Geolocation
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		geo := insights.Geolocation{
			CustomerUniqueID: index.value(record, "customer_unique_id"),
			City:             index.value(record, "geolocation_city"),
			State:            index.value(record, "geolocation_state"),
		}
		if geo.CustomerUniqueID == "" {
			skipped++
			continue
		}

		lat, latErr := strconv.ParseFloat(index.value(record, "geolocation_lat"), 64)
		lng, lngErr := strconv.ParseFloat(index.value(record, "geolocation_lng"), 64)
		if latErr != nil || lngErr != nil {
			skipped++
			continue
		}
		geo.Lat = lat
		geo.Lng = lng

		geos = append(geos, geo)
	}
	return geos, skipped, nil
}
