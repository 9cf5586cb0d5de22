package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, registry *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading scrape body: %v", err)
	}
	return string(body)
}

func TestRegistryExposesHTTPMetrics(t *testing.T) {
	registry := NewRegistry()

	RecordHTTPMetrics(http.MethodGet, "/api/v1/videos", http.StatusOK, 30*time.Millisecond)
	IncrementInFlight()
	defer DecrementInFlight()

	body := scrape(t, registry)
	if !strings.Contains(body, "http_requests_total") {
		t.Fatal("expected http_requests_total in scrape output")
	}
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Fatal("expected http_request_duration_seconds in scrape output")
	}
	if !strings.Contains(body, "http_requests_in_flight") {
		t.Fatal("expected http_requests_in_flight in scrape output")
	}
}

func TestRegistryExposesStoreMetrics(t *testing.T) {
	registry := NewRegistry()

	RecordStoreMetrics("query", "videos", false, 5*time.Millisecond)
	RecordStoreMetrics("update", "playlists", true, 5*time.Millisecond)

	body := scrape(t, registry)
	if !strings.Contains(body, "store_operation_duration_seconds") {
		t.Fatal("expected store_operation_duration_seconds in scrape output")
	}
	if !strings.Contains(body, `outcome="ok"`) {
		t.Fatal("expected ok outcome label")
	}
	if !strings.Contains(body, `outcome="error"`) {
		t.Fatal("expected error outcome label")
	}
}

func TestRegistryExposesRuntimeMetrics(t *testing.T) {
	body := scrape(t, NewRegistry())
	if !strings.Contains(body, "go_goroutines") {
		t.Fatal("expected go runtime metrics in scrape output")
	}
}
