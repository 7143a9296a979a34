package dashboard

import (
	"net/http"
	"time"

	"github.com/atheash/commerce-insights/api/validators"
	"github.com/atheash/commerce-insights/internal/insights"
	pkgerrors "github.com/atheash/commerce-insights/pkg/errors"
)

const dayLayout = "2006-01-02"

// resolveWindow reads the from/to day parameters, filling either end from
// the dataset's approval bounds when omitted.
func resolveWindow(r *http.Request, service insights.Service) (time.Time, time.Time, error) {
	start, err := validators.ParseQueryDay(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := validators.ParseQueryDay(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if start.IsZero() || end.IsZero() {
		bounds, ok := service.Bounds(r.Context())
		if !ok {
			return time.Time{}, time.Time{}, noBoundsError()
		}
		if start.IsZero() {
			start, _ = time.Parse(dayLayout, bounds.MinDay)
		}
		if end.IsZero() {
			end, _ = time.Parse(dayLayout, bounds.MaxDay)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, invalidWindowError(start, end)
	}
	return start, end, nil
}

func invalidWindowError(start, end time.Time) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from").WithDetails(map[string]string{
		"from": start.Format(dayLayout),
		"to":   end.Format(dayLayout),
	})
}

func noBoundsError() error {
	return pkgerrors.New(pkgerrors.CodeNoData, "dataset has no approved orders")
}
