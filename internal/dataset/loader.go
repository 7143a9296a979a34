package dataset

import (
	"fmt"

	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/db"
	"github.com/atheash/commerce-insights/pkg/logger"
)

// NewSource selects the dataset source from configuration. The warehouse
// client is only required for the warehouse source.
func NewSource(cfg config.DatasetConfig, warehouse *db.Client, logg *logger.Logger) (Source, error) {
	if cfg.IsWarehouse() {
		if warehouse == nil {
			return nil, fmt.Errorf("warehouse dataset source requires a database client")
		}
		return NewWarehouseSource(warehouse.DB()), nil
	}
	return NewCSVSource(cfg, logg), nil
}
