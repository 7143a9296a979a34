package dataset

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/db/models"
)

const warehouseBatchSize = 5000

// WarehouseSource reads the order and geolocation tables from the
// analytics warehouse.
type WarehouseSource struct {
	conn *gorm.DB
}

// NewWarehouseSource builds a source over an open GORM connection.
func NewWarehouseSource(conn *gorm.DB) *WarehouseSource {
	return &WarehouseSource{conn: conn}
}

// Load reads both tables in batches.
func (s *WarehouseSource) Load(ctx context.Context) (*Result, error) {
	result := &Result{}

	var facts []models.OrderFact
	err := s.conn.WithContext(ctx).
		Order("id").
		FindInBatches(&facts, warehouseBatchSize, func(_ *gorm.DB, _ int) error {
			for _, fact := range facts {
				result.Orders = append(result.Orders, orderFromFact(fact))
			}
			return nil
		}).Error
	if err != nil {
		return nil, fmt.Errorf("loading order facts: %w", err)
	}

	var rows []models.CustomerGeolocation
	err = s.conn.WithContext(ctx).
		Order("id").
		FindInBatches(&rows, warehouseBatchSize, func(_ *gorm.DB, _ int) error {
			for _, row := range rows {
				result.Geolocations = append(result.Geolocations, insights.Geolocation{
					CustomerUniqueID: row.CustomerUniqueID,
					Lat:              row.Lat,
					Lng:              row.Lng,
					City:             row.City,
					State:            row.State,
				})
			}
			return nil
		}).Error
	if err != nil {
		return nil, fmt.Errorf("loading customer geolocations: %w", err)
	}

	return result, nil
}

func orderFromFact(fact models.OrderFact) insights.Order {
	return insights.Order{
		OrderID:             fact.OrderID,
		CustomerID:          fact.CustomerID,
		ProductID:           fact.ProductID,
		Category:            fact.Category,
		Spend:               fact.Price.Add(fact.Freight),
		ReviewScore:         fact.ReviewScore,
		Status:              fact.Status,
		CustomerState:       fact.CustomerState,
		PurchasedAt:         fact.PurchasedAt,
		ApprovedAt:          fact.ApprovedAt,
		CarrierHandoffAt:    fact.CarrierHandoffAt,
		DeliveredAt:         fact.DeliveredAt,
		EstimatedDeliveryAt: fact.EstimatedDeliveryAt,
		ShippingLimitAt:     fact.ShippingLimitAt,
	}
}
