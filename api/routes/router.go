package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atheash/commerce-insights/api/controllers"
	dashboardcontrollers "github.com/atheash/commerce-insights/api/controllers/dashboard"
	"github.com/atheash/commerce-insights/api/middleware"
	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/logger"
	"github.com/atheash/commerce-insights/pkg/metrics"
	"github.com/atheash/commerce-insights/pkg/redis"
)

// NewRouter assembles the HTTP surface. The database pinger and redis client
// may be nil on csv-only deployments; readiness checks and rate limiting
// degrade accordingly.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	service insights.Service,
	reloader controllers.SnapshotReloader,
	dbP controllers.Pinger,
	redisClient *redis.Client,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	reloadPolicy := middleware.NewRateLimitPolicy(
		"reload",
		cfg.RateLimit.ReloadWindow,
		cfg.RateLimit.ReloadIPLimit,
	)
	reloadLimiter := middleware.RateLimit(reloadPolicy, nil, logg)
	if redisClient != nil {
		reloadLimiter = middleware.RateLimit(reloadPolicy, redisClient, logg)
	}

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadyDeps(dbP, redisPinger)))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/", dashboardcontrollers.Full(service, logg))
		r.Get("/daily-orders", dashboardcontrollers.DailyOrders(service, logg))
		r.Get("/spend", dashboardcontrollers.Spend(service, logg))
		r.Get("/categories", dashboardcontrollers.Categories(service, logg))
		r.Get("/review-scores", dashboardcontrollers.ReviewScores(service, logg))
		r.Get("/customers/by-state", dashboardcontrollers.CustomersByState(service, logg))
		r.Get("/order-status", dashboardcontrollers.OrderStatuses(service, logg))
		r.Get("/geolocations", dashboardcontrollers.Geolocations(service, logg))
		r.Get("/bounds", dashboardcontrollers.Bounds(service, logg))
	})

	r.Route("/api/v1/datasets", func(r chi.Router) {
		r.With(reloadLimiter).Post("/reload", controllers.DatasetReload(reloader, service, logg))
	})

	return r
}
