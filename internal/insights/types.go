package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/pkg/enums"
)

// Order is one line of the typed order table: a single purchased item with
// its order-level timestamps, spend (price plus freight), review score and
// customer location. The dataset collaborator guarantees the typing; nil
// pointer fields mean the source column was empty.
type Order struct {
	OrderID       string
	CustomerID    string
	ProductID     string
	Category      string
	Spend         decimal.Decimal
	ReviewScore   *int
	Status        enums.OrderStatus
	CustomerState string

	PurchasedAt         time.Time
	ApprovedAt          *time.Time
	CarrierHandoffAt    *time.Time
	DeliveredAt         *time.Time
	EstimatedDeliveryAt *time.Time
	ShippingLimitAt     *time.Time
}

// Geolocation is one row of the customer geolocation table. The raw export
// carries one row per zip-code observation, so the same customer appears
// many times until deduplicated.
type Geolocation struct {
	CustomerUniqueID string  `json:"customer_unique_id"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	City             string  `json:"city"`
	State            string  `json:"state"`
}

// DailyOrderStat is one point of the daily orders series.
type DailyOrderStat struct {
	Day        string          `json:"day"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// DailySpendStat is one point of the customer spend series.
type DailySpendStat struct {
	Day        string          `json:"day"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

// SpendTotals carries the scalar statistics the dashboard prints above the
// spend chart.
type SpendTotals struct {
	Total decimal.Decimal `json:"total"`
	Mean  decimal.Decimal `json:"mean"`
}

// CategoryStat is one product category with its sold line count.
type CategoryStat struct {
	Category  string `json:"category"`
	ItemCount int64  `json:"item_count"`
}

// ScoreCount is one review score bucket.
type ScoreCount struct {
	Score int   `json:"score"`
	Count int64 `json:"count"`
}

// ReviewScoreDistribution is the count-by-score histogram plus its mode.
// Mode is nil when no row in the window carries a review score.
type ReviewScoreDistribution struct {
	Counts []ScoreCount `json:"counts"`
	Mode   *int         `json:"mode"`
}

// StateCount is one customer state with its distinct customer count.
type StateCount struct {
	State         string `json:"state"`
	CustomerCount int64  `json:"customer_count"`
}

// StateDistribution is the customer-by-state breakdown. TopState is empty
// when the filtered table is empty.
type StateDistribution struct {
	Counts   []StateCount `json:"counts"`
	TopState string       `json:"top_state"`
}

// StatusCount is one order status with its row count.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// StatusDistribution is the order status breakdown. TopStatus is empty when
// the filtered table is empty.
type StatusDistribution struct {
	Counts    []StatusCount     `json:"counts"`
	TopStatus enums.OrderStatus `json:"top_status"`
}

// DayFormat is the civil-date key format shared by every daily series.
const DayFormat = "2006-01-02"

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return dayOf(t).Format(DayFormat)
}
