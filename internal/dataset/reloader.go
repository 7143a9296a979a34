package dataset

import (
	"context"
	"strings"
	"time"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/db"
	pkgerrors "github.com/atheash/commerce-insights/pkg/errors"
	"github.com/atheash/commerce-insights/pkg/logger"
	"github.com/atheash/commerce-insights/pkg/metrics"
)

// Reloader rebuilds snapshots on demand, tracking load metrics. It powers
// both startup loading and the reload endpoint.
type Reloader struct {
	cfg       config.DatasetConfig
	warehouse *db.Client
	logg      *logger.Logger
	metrics   *metrics.DatasetMetrics
}

// NewReloader wires the reload dependencies. The warehouse client may be
// nil when only the csv source is configured.
func NewReloader(cfg config.DatasetConfig, warehouse *db.Client, logg *logger.Logger, m *metrics.DatasetMetrics) *Reloader {
	return &Reloader{
		cfg:       cfg,
		warehouse: warehouse,
		logg:      logg,
		metrics:   m,
	}
}

// Reload loads a fresh snapshot from the configured source, or from the
// override source when one is supplied.
func (r *Reloader) Reload(ctx context.Context, sourceOverride string) (*insights.Snapshot, error) {
	cfg := r.cfg
	if override := strings.TrimSpace(sourceOverride); override != "" {
		cfg.Source = override
	}

	source, err := NewSource(cfg, r.warehouse, r.logg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unusable dataset source")
	}

	start := time.Now()
	result, err := source.Load(ctx)
	if err != nil {
		r.metrics.IncLoadFailure(cfg.Source)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dataset load failed")
	}
	r.metrics.ObserveLoad(cfg.Source, time.Since(start))
	r.metrics.IncLoadSuccess(cfg.Source)
	r.metrics.AddSkippedRows("orders", result.SkippedOrders)
	r.metrics.AddSkippedRows("geolocations", result.SkippedGeos)

	snapshot := insights.NewSnapshot(result.Orders, result.Geolocations)
	r.metrics.SetRows("orders", len(snapshot.Orders))
	r.metrics.SetRows("geolocations", len(snapshot.Geolocations))

	if r.logg != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"dataset_version": snapshot.Version,
			"source":          cfg.Source,
			"orders":          len(snapshot.Orders),
			"geolocations":    len(snapshot.Geolocations),
			"skipped_orders":  result.SkippedOrders,
			"skipped_geos":    result.SkippedGeos,
		})
		r.logg.Info(logCtx, "dataset snapshot loaded")
	}
	return snapshot, nil
}
