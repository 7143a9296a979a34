package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/atheash/commerce-insights/pkg/logger"
)

// DefaultRankingSize is how many best/worst sellers the dashboard shows.
const DefaultRankingSize = 5

// Snapshot is one immutable load of the dataset. The service swaps whole
// snapshots; nothing ever mutates a published snapshot in place.
type Snapshot struct {
	Version      string
	LoadedAt     time.Time
	Orders       []Order
	Geolocations []Geolocation
}

// NewSnapshot builds a snapshot from freshly loaded tables. The geolocation
// table is deduplicated here so every consumer sees one row per customer.
func NewSnapshot(orders []Order, geolocations []Geolocation) *Snapshot {
	return &Snapshot{
		Version:      uuid.NewString(),
		LoadedAt:     time.Now().UTC(),
		Orders:       orders,
		Geolocations: DedupeGeolocations(geolocations),
	}
}

// Window echoes the requested date range back to the caller.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds is the min/max approval date of the loaded dataset, used by the
// control surface to seed its date picker.
type Bounds struct {
	MinDay string `json:"min_day"`
	MaxDay string `json:"max_day"`
}

// SpendReport is the spend series with its scalar totals.
type SpendReport struct {
	Series []DailySpendStat `json:"series"`
	Totals SpendTotals      `json:"totals"`
}

// CategoryReport carries the full ranking plus the best/worst slices the
// dashboard renders side by side.
type CategoryReport struct {
	Ranking    []CategoryStat `json:"ranking"`
	Top        []CategoryStat `json:"top"`
	Bottom     []CategoryStat `json:"bottom"`
	TotalItems int64          `json:"total_items"`
}

// DashboardReport bundles the six aggregates for a single date window.
type DashboardReport struct {
	Window       Window                  `json:"window"`
	TotalOrders  int64                   `json:"total_orders"`
	TotalRevenue decimal.Decimal         `json:"total_revenue"`
	DailyOrders  []DailyOrderStat        `json:"daily_orders"`
	Spend        SpendReport             `json:"spend"`
	Categories   CategoryReport          `json:"categories"`
	ReviewScores ReviewScoreDistribution `json:"review_scores"`
	States       StateDistribution       `json:"states"`
	Statuses     StatusDistribution      `json:"statuses"`
}

// ReportCache is the read-through cache surface for dashboard reports.
// pkg/redis.Client satisfies it; a nil cache disables caching entirely.
type ReportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service answers every dashboard question from the current snapshot.
type Service interface {
	Dashboard(ctx context.Context, start, end time.Time) (*DashboardReport, error)
	DailyOrderSeries(ctx context.Context, start, end time.Time) []DailyOrderStat
	Spend(ctx context.Context, start, end time.Time) *SpendReport
	Categories(ctx context.Context, start, end time.Time, limit int) *CategoryReport
	ReviewScoreReport(ctx context.Context, start, end time.Time) ReviewScoreDistribution
	StateReport(ctx context.Context, start, end time.Time) StateDistribution
	StatusReport(ctx context.Context, start, end time.Time) StatusDistribution
	CustomerGeolocations(ctx context.Context) []Geolocation
	Bounds(ctx context.Context) (Bounds, bool)
	Replace(snapshot *Snapshot)
	Version() string
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Snapshot *Snapshot
	Cache    ReportCache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

type service struct {
	snapshot atomic.Pointer[Snapshot]
	cache    ReportCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds the insights service around an initial snapshot.
func NewService(params ServiceParams) (Service, error) {
	if params.Snapshot == nil {
		return nil, fmt.Errorf("initial snapshot required")
	}
	s := &service{
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}
	s.snapshot.Store(params.Snapshot)
	return s, nil
}

func (s *service) current() *Snapshot {
	return s.snapshot.Load()
}

func (s *service) Replace(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	s.snapshot.Store(snapshot)
}

func (s *service) Version() string {
	return s.current().Version
}

func (s *service) Dashboard(ctx context.Context, start, end time.Time) (*DashboardReport, error) {
	snap := s.current()
	key := fmt.Sprintf("dashboard:%s:%s:%s", snap.Version, dayKey(start), dayKey(end))

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached DashboardReport
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	report, err := s.buildReport(ctx, snap, start, end)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "dashboard cache write failed")
			}
		}
	}
	return report, nil
}

// buildReport runs the six aggregations over one filtered table. They are
// independent pure functions, so each gets its own goroutine.
func (s *service) buildReport(ctx context.Context, snap *Snapshot, start, end time.Time) (*DashboardReport, error) {
	filtered := FilterByApprovalDate(snap.Orders, start, end)

	report := &DashboardReport{
		Window:       Window{Start: dayKey(start), End: dayKey(end)},
		TotalRevenue: decimal.Zero,
	}
	report.Spend.Totals = SpendTotals{Total: decimal.Zero, Mean: decimal.Zero}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.DailyOrders = DailyOrders(filtered)
		for _, day := range report.DailyOrders {
			report.TotalOrders += day.OrderCount
			report.TotalRevenue = report.TotalRevenue.Add(day.Revenue)
		}
		return nil
	})
	g.Go(func() error {
		series := SpendSummary(filtered)
		report.Spend = SpendReport{Series: series, Totals: ComputeSpendTotals(series)}
		return nil
	})
	g.Go(func() error {
		report.Categories = *buildCategoryReport(filtered, DefaultRankingSize)
		return nil
	})
	g.Go(func() error {
		report.ReviewScores = ReviewScores(filtered)
		return nil
	})
	g.Go(func() error {
		report.States = CustomersByState(filtered)
		return nil
	})
	g.Go(func() error {
		report.Statuses = StatusBreakdown(filtered)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *service) DailyOrderSeries(ctx context.Context, start, end time.Time) []DailyOrderStat {
	return DailyOrders(FilterByApprovalDate(s.current().Orders, start, end))
}

func (s *service) Spend(ctx context.Context, start, end time.Time) *SpendReport {
	series := SpendSummary(FilterByApprovalDate(s.current().Orders, start, end))
	return &SpendReport{Series: series, Totals: ComputeSpendTotals(series)}
}

func (s *service) Categories(ctx context.Context, start, end time.Time, limit int) *CategoryReport {
	if limit <= 0 {
		limit = DefaultRankingSize
	}
	return buildCategoryReport(FilterByApprovalDate(s.current().Orders, start, end), limit)
}

func buildCategoryReport(filtered []Order, limit int) *CategoryReport {
	ranking := CategorySales(filtered)
	report := &CategoryReport{
		Ranking: ranking,
		Top:     TopCategories(ranking, limit),
		Bottom:  BottomCategories(ranking, limit),
	}
	for _, stat := range ranking {
		report.TotalItems += stat.ItemCount
	}
	return report
}

func (s *service) ReviewScoreReport(ctx context.Context, start, end time.Time) ReviewScoreDistribution {
	return ReviewScores(FilterByApprovalDate(s.current().Orders, start, end))
}

func (s *service) StateReport(ctx context.Context, start, end time.Time) StateDistribution {
	return CustomersByState(FilterByApprovalDate(s.current().Orders, start, end))
}

func (s *service) StatusReport(ctx context.Context, start, end time.Time) StatusDistribution {
	return StatusBreakdown(FilterByApprovalDate(s.current().Orders, start, end))
}

func (s *service) CustomerGeolocations(ctx context.Context) []Geolocation {
	return s.current().Geolocations
}

// Bounds reports the min and max approval day across the whole snapshot.
// The second return is false when no order was ever approved.
func (s *service) Bounds(ctx context.Context) (Bounds, bool) {
	var minDay, maxDay time.Time
	found := false
	for _, order := range s.current().Orders {
		if order.ApprovedAt == nil {
			continue
		}
		day := dayOf(*order.ApprovedAt)
		if !found {
			minDay, maxDay = day, day
			found = true
			continue
		}
		if day.Before(minDay) {
			minDay = day
		}
		if day.After(maxDay) {
			maxDay = day
		}
	}
	if !found {
		return Bounds{}, false
	}
	return Bounds{MinDay: minDay.Format(DayFormat), MaxDay: maxDay.Format(DayFormat)}, true
}
