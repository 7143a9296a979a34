package controllers

import (
	"context"
	"net/http"

	"github.com/atheash/commerce-insights/api/responses"
	"github.com/atheash/commerce-insights/api/validators"
	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/logger"
)

// SnapshotReloader rebuilds a dataset snapshot, optionally from an
// overridden source.
type SnapshotReloader interface {
	Reload(ctx context.Context, sourceOverride string) (*insights.Snapshot, error)
}

type reloadRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=csv warehouse"`
}

type reloadResponse struct {
	DatasetVersion string `json:"dataset_version"`
	Orders         int    `json:"orders"`
	Geolocations   int    `json:"geolocations"`
}

// DatasetReload rebuilds the in-memory snapshot and swaps it into the
// reporting service. The body is optional; an empty body reloads from the
// configured source.
func DatasetReload(reloader SnapshotReloader, service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reloadRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		snapshot, err := reloader.Reload(r.Context(), req.Source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		service.Replace(snapshot)

		if logg != nil {
			ctx := logg.WithDatasetVersion(r.Context(), snapshot.Version)
			logg.Info(ctx, "dataset reloaded")
		}

		responses.WriteSuccess(w, reloadResponse{
			DatasetVersion: snapshot.Version,
			Orders:         len(snapshot.Orders),
			Geolocations:   len(snapshot.Geolocations),
		})
	}
}
