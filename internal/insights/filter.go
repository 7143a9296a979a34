package insights

import "time"

// FilterByApprovalDate returns the rows whose approval timestamp falls on a
// day inside the inclusive [start, end] window. Comparison is at day
// granularity in UTC. Rows that were never approved are excluded. An
// inverted window yields an empty result rather than an error; the upstream
// control surface is expected to reject it before it gets here.
func FilterByApprovalDate(orders []Order, start, end time.Time) []Order {
	startDay := dayOf(start)
	endDay := dayOf(end)

	filtered := make([]Order, 0, len(orders))
	for _, order := range orders {
		if order.ApprovedAt == nil {
			continue
		}
		day := dayOf(*order.ApprovedAt)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}
