package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/pkg/enums"
)

// The six aggregations below are pure functions over an already filtered
// order table. None of them mutates its input; each returns freshly built
// result structures, so callers are free to run them concurrently.

// DailyOrders groups the filtered table by approval day and emits the
// distinct order count and the revenue for each observed day, ascending.
// Days without orders do not appear; the presentation layer draws only
// observed points. A multi-line order counts once per day while its spend
// sums across all of its lines.
func DailyOrders(orders []Order) []DailyOrderStat {
	ordersByDay := make(map[string]map[string]struct{})
	revenueByDay := make(map[string]decimal.Decimal)

	for _, order := range orders {
		if order.ApprovedAt == nil {
			continue
		}
		day := dayKey(*order.ApprovedAt)
		ids, ok := ordersByDay[day]
		if !ok {
			ids = make(map[string]struct{})
			ordersByDay[day] = ids
		}
		ids[order.OrderID] = struct{}{}
		revenueByDay[day] = revenueByDay[day].Add(order.Spend)
	}

	stats := make([]DailyOrderStat, 0, len(ordersByDay))
	for day, ids := range ordersByDay {
		stats = append(stats, DailyOrderStat{
			Day:        day,
			OrderCount: int64(len(ids)),
			Revenue:    revenueByDay[day],
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Day < stats[j].Day })
	return stats
}

// SpendSummary groups the filtered table by approval day and emits total
// spend per day, ascending by day.
func SpendSummary(orders []Order) []DailySpendStat {
	spendByDay := make(map[string]decimal.Decimal)
	for _, order := range orders {
		if order.ApprovedAt == nil {
			continue
		}
		day := dayKey(*order.ApprovedAt)
		spendByDay[day] = spendByDay[day].Add(order.Spend)
	}

	stats := make([]DailySpendStat, 0, len(spendByDay))
	for day, total := range spendByDay {
		stats = append(stats, DailySpendStat{Day: day, TotalSpend: total})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Day < stats[j].Day })
	return stats
}

// ComputeSpendTotals reduces a spend series to its sum and arithmetic mean.
// Both are zero on an empty series.
func ComputeSpendTotals(series []DailySpendStat) SpendTotals {
	totals := SpendTotals{Total: decimal.Zero, Mean: decimal.Zero}
	if len(series) == 0 {
		return totals
	}
	for _, point := range series {
		totals.Total = totals.Total.Add(point.TotalSpend)
	}
	totals.Mean = totals.Total.Div(decimal.NewFromInt(int64(len(series))))
	return totals
}

// CategorySales counts order lines per product category, sorted by count
// descending with category label ascending as the tie-break, so repeated
// calls on the same data always agree.
func CategorySales(orders []Order) []CategoryStat {
	countByCategory := make(map[string]int64)
	for _, order := range orders {
		countByCategory[order.Category]++
	}

	stats := make([]CategoryStat, 0, len(countByCategory))
	for category, count := range countByCategory {
		stats = append(stats, CategoryStat{Category: category, ItemCount: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].ItemCount != stats[j].ItemCount {
			return stats[i].ItemCount > stats[j].ItemCount
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// TopCategories returns the first n best sellers of an already descending
// category ranking.
func TopCategories(stats []CategoryStat, n int) []CategoryStat {
	if n < 0 {
		n = 0
	}
	if n > len(stats) {
		n = len(stats)
	}
	top := make([]CategoryStat, n)
	copy(top, stats[:n])
	return top
}

// BottomCategories re-sorts the ranking ascending by count (category label
// ascending on ties) and returns the first n.
func BottomCategories(stats []CategoryStat, n int) []CategoryStat {
	if n < 0 {
		n = 0
	}
	ascending := make([]CategoryStat, len(stats))
	copy(ascending, stats)
	sort.Slice(ascending, func(i, j int) bool {
		if ascending[i].ItemCount != ascending[j].ItemCount {
			return ascending[i].ItemCount < ascending[j].ItemCount
		}
		return ascending[i].Category < ascending[j].Category
	})
	if n > len(ascending) {
		n = len(ascending)
	}
	return ascending[:n]
}

// ReviewScores counts review occurrences per score, ascending by score, and
// reports the mode. Rows without a review are skipped. Ties on the mode go
// to the lowest score; Mode is nil when nothing in the window was reviewed.
func ReviewScores(orders []Order) ReviewScoreDistribution {
	countByScore := make(map[int]int64)
	for _, order := range orders {
		if order.ReviewScore == nil {
			continue
		}
		countByScore[*order.ReviewScore]++
	}

	dist := ReviewScoreDistribution{Counts: make([]ScoreCount, 0, len(countByScore))}
	for score, count := range countByScore {
		dist.Counts = append(dist.Counts, ScoreCount{Score: score, Count: count})
	}
	sort.Slice(dist.Counts, func(i, j int) bool { return dist.Counts[i].Score < dist.Counts[j].Score })

	var best int64
	for _, bucket := range dist.Counts {
		if bucket.Count > best {
			best = bucket.Count
			score := bucket.Score
			dist.Mode = &score
		}
	}
	return dist
}

// CustomersByState counts distinct customers per state, sorted by count
// descending with state ascending on ties. TopState is the first entry of
// that ordering, which makes the tie-break lexicographic and deterministic.
func CustomersByState(orders []Order) StateDistribution {
	customersByState := make(map[string]map[string]struct{})
	for _, order := range orders {
		customers, ok := customersByState[order.CustomerState]
		if !ok {
			customers = make(map[string]struct{})
			customersByState[order.CustomerState] = customers
		}
		customers[order.CustomerID] = struct{}{}
	}

	dist := StateDistribution{Counts: make([]StateCount, 0, len(customersByState))}
	for state, customers := range customersByState {
		dist.Counts = append(dist.Counts, StateCount{State: state, CustomerCount: int64(len(customers))})
	}
	sort.Slice(dist.Counts, func(i, j int) bool {
		if dist.Counts[i].CustomerCount != dist.Counts[j].CustomerCount {
			return dist.Counts[i].CustomerCount > dist.Counts[j].CustomerCount
		}
		return dist.Counts[i].State < dist.Counts[j].State
	})
	if len(dist.Counts) > 0 {
		dist.TopState = dist.Counts[0].State
	}
	return dist
}

// StatusBreakdown counts order lines per status, sorted by count descending
// with status ascending on ties, and reports the most frequent status.
func StatusBreakdown(orders []Order) StatusDistribution {
	countByStatus := make(map[enums.OrderStatus]int64)
	for _, order := range orders {
		countByStatus[order.Status]++
	}

	dist := StatusDistribution{Counts: make([]StatusCount, 0, len(countByStatus))}
	for status, count := range countByStatus {
		dist.Counts = append(dist.Counts, StatusCount{Status: status, Count: count})
	}
	sort.Slice(dist.Counts, func(i, j int) bool {
		if dist.Counts[i].Count != dist.Counts[j].Count {
			return dist.Counts[i].Count > dist.Counts[j].Count
		}
		return dist.Counts[i].Status < dist.Counts[j].Status
	})
	if len(dist.Counts) > 0 {
		dist.TopStatus = dist.Counts[0].Status
	}
	return dist
}
