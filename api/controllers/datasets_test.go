package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/enums"
	pkgerrors "github.com/atheash/commerce-insights/pkg/errors"
	"github.com/atheash/commerce-insights/pkg/types"
)

type stubReloader struct {
	snapshot   *insights.Snapshot
	err        error
	lastSource string
	calls      int
}

func (s *stubReloader) Reload(ctx context.Context, sourceOverride string) (*insights.Snapshot, error) {
	s.calls++
	s.lastSource = sourceOverride
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func reloadFixtureSnapshot() *insights.Snapshot {
	orders := []insights.Order{
		{OrderID: "o1", CustomerID: "c1", Spend: decimal.NewFromInt(100), Status: enums.OrderStatusDelivered},
		{OrderID: "o2", CustomerID: "c2", Spend: decimal.NewFromInt(50), Status: enums.OrderStatusShipped},
	}
	geos := []insights.Geolocation{
		{CustomerUniqueID: "g1", Lat: -23.55, Lng: -46.63, State: "SP"},
	}
	return insights.NewSnapshot(orders, geos)
}

func reloadTestService(t *testing.T) insights.Service {
	t.Helper()
	service, err := insights.NewService(insights.ServiceParams{Snapshot: insights.NewSnapshot(nil, nil)})
	if err != nil {
		t.Fatalf("building test service: %v", err)
	}
	return service
}

func TestDatasetReloadSwapsSnapshot(t *testing.T) {
	snapshot := reloadFixtureSnapshot()
	reloader := &stubReloader{snapshot: snapshot}
	service := reloadTestService(t)
	handler := DatasetReload(reloader, service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			DatasetVersion string `json:"dataset_version"`
			Orders         int    `json:"orders"`
			Geolocations   int    `json:"geolocations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DatasetVersion != snapshot.Version {
		t.Fatalf("expected version %q, got %q", snapshot.Version, envelope.Data.DatasetVersion)
	}
	if envelope.Data.Orders != 2 || envelope.Data.Geolocations != 1 {
		t.Fatalf("unexpected counts: %+v", envelope.Data)
	}
	if service.Version() != snapshot.Version {
		t.Fatal("expected the service snapshot to be replaced")
	}
	if reloader.lastSource != "" {
		t.Fatalf("expected no source override, got %q", reloader.lastSource)
	}
}

func TestDatasetReloadPassesSourceOverride(t *testing.T) {
	reloader := &stubReloader{snapshot: reloadFixtureSnapshot()}
	handler := DatasetReload(reloader, reloadTestService(t), nil)

	body := strings.NewReader(`{"source":"warehouse"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if reloader.lastSource != "warehouse" {
		t.Fatalf("expected warehouse override, got %q", reloader.lastSource)
	}
}

func TestDatasetReloadRejectsUnknownSource(t *testing.T) {
	reloader := &stubReloader{snapshot: reloadFixtureSnapshot()}
	handler := DatasetReload(reloader, reloadTestService(t), nil)

	body := strings.NewReader(`{"source":"spreadsheet"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if reloader.calls != 0 {
		t.Fatal("expected no reload attempt for an invalid body")
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestDatasetReloadReportsLoadFailure(t *testing.T) {
	reloader := &stubReloader{err: pkgerrors.New(pkgerrors.CodeDependency, "dataset load failed")}
	service := reloadTestService(t)
	before := service.Version()
	handler := DatasetReload(reloader, service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/reload", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if service.Version() != before {
		t.Fatal("expected the active snapshot to be untouched on failure")
	}
}
