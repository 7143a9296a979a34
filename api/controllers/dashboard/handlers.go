package dashboard

import (
	"net/http"

	"github.com/atheash/commerce-insights/api/responses"
	"github.com/atheash/commerce-insights/api/validators"
	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/logger"
)

const maxCategoryLimit = 50

// Full returns the complete dashboard report for the requested window.
func Full(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithWindow(ctx, start, end)
		}

		report, err := service.Dashboard(ctx, start, end)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// DailyOrders returns the per-day order count and revenue series.
func DailyOrders(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.DailyOrderSeries(ctx, start, end))
	}
}

// Spend returns the per-day spend series with window totals.
func Spend(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.Spend(ctx, start, end))
	}
}

// Categories returns the category ranking with best and worst sellers.
func Categories(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", insights.DefaultRankingSize, 1, maxCategoryLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.Categories(ctx, start, end, limit))
	}
}

// ReviewScores returns the review score distribution and mode.
func ReviewScores(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.ReviewScoreReport(ctx, start, end))
	}
}

// CustomersByState returns distinct customer counts per state.
func CustomersByState(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.StateReport(ctx, start, end))
	}
}

// OrderStatuses returns order counts per lifecycle status.
func OrderStatuses(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := resolveWindow(r, service)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, service.StatusReport(ctx, start, end))
	}
}

// Geolocations returns one map point per customer.
func Geolocations(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		points := service.CustomerGeolocations(ctx)
		if points == nil {
			points = []insights.Geolocation{}
		}
		responses.WriteSuccess(w, points)
	}
}

// Bounds returns the dataset's approval date range for window pickers.
func Bounds(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		bounds, ok := service.Bounds(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, noBoundsError())
			return
		}
		responses.WriteSuccess(w, bounds)
	}
}
