package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/pkg/enums"
)

// OrderFact is one order line in the warehouse: an order joined with its
// item, customer, and review columns the dashboards aggregate over.
type OrderFact struct {
	ID                  int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID             string            `gorm:"column:order_id;type:text;not null;index"`
	CustomerID          string            `gorm:"column:customer_id;type:text;not null"`
	ProductID           string            `gorm:"column:product_id;type:text"`
	Category            string            `gorm:"column:product_category_name;type:text"`
	Price               decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Freight             decimal.Decimal   `gorm:"column:freight_value;type:numeric(12,2);not null;default:0"`
	ReviewScore         *int              `gorm:"column:review_score"`
	Status              enums.OrderStatus `gorm:"column:order_status;type:text;not null"`
	CustomerState       string            `gorm:"column:customer_state;type:text"`
	PurchasedAt         time.Time         `gorm:"column:order_purchase_timestamp;not null"`
	ApprovedAt          *time.Time        `gorm:"column:order_approved_at;index"`
	CarrierHandoffAt    *time.Time        `gorm:"column:order_delivered_carrier_date"`
	DeliveredAt         *time.Time        `gorm:"column:order_delivered_customer_date"`
	EstimatedDeliveryAt *time.Time        `gorm:"column:order_estimated_delivery_date"`
	ShippingLimitAt     *time.Time        `gorm:"column:shipping_limit_date"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the warehouse table name.
func (OrderFact) TableName() string {
	return "order_facts"
}
