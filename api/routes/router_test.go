package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/enums"
	"github.com/atheash/commerce-insights/pkg/logger"
	"github.com/atheash/commerce-insights/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubReloader struct {
	calls int
}

func (s *stubReloader) Reload(ctx context.Context, sourceOverride string) (*insights.Snapshot, error) {
	s.calls++
	return insights.NewSnapshot(nil, nil), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		RateLimit: config.RateLimitConfig{
			ReloadWindow:  time.Minute,
			ReloadIPLimit: 5,
		},
	}
}

func testSnapshot(t *testing.T) *insights.Snapshot {
	t.Helper()
	approved := time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC)
	return insights.NewSnapshot([]insights.Order{
		{
			OrderID:     "o1",
			CustomerID:  "c1",
			Category:    "toys",
			Spend:       decimal.NewFromInt(100),
			Status:      enums.OrderStatusDelivered,
			PurchasedAt: approved.Add(-time.Hour),
			ApprovedAt:  &approved,
		},
	}, []insights.Geolocation{
		{CustomerUniqueID: "g1", Lat: -23.55, Lng: -46.63, State: "SP"},
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	service, err := insights.NewService(insights.ServiceParams{Snapshot: testSnapshot(t)})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	registry := prometheus.NewRegistry()
	return NewRouter(
		testConfig(),
		logg,
		registry,
		metrics.NewHTTPMetrics(registry),
		service,
		&stubReloader{},
		stubPinger{},
		nil, // redis
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
	}
}

func TestDashboardRoutesAreWired(t *testing.T) {
	router := newTestRouter(t)
	paths := []string{
		"/api/v1/dashboard",
		"/api/v1/dashboard/daily-orders",
		"/api/v1/dashboard/spend",
		"/api/v1/dashboard/categories",
		"/api/v1/dashboard/review-scores",
		"/api/v1/dashboard/customers/by-state",
		"/api/v1/dashboard/order-status",
		"/api/v1/dashboard/geolocations",
		"/api/v1/dashboard/bounds",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestReloadRouteAcceptsPostOnly(t *testing.T) {
	router := newTestRouter(t)

	post := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, post)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for reload got %d: %s", resp.Code, resp.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/reload", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, get)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET reload got %d", resp.Code)
	}
}

func TestReloadRouteRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)

	// prime the request counter before scraping
	warm := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "http_requests_total") {
		t.Fatal("expected request counter in metrics output")
	}
}

func TestRequestIDHeaderAttached(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}
