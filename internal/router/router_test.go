package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evyataryagoni/storefinder/internal/directory"
	"github.com/evyataryagoni/storefinder/internal/geocode"
	"github.com/evyataryagoni/storefinder/internal/handler"
	"github.com/evyataryagoni/storefinder/internal/limiter"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/metrics"
	"github.com/evyataryagoni/storefinder/internal/models"
	"github.com/evyataryagoni/storefinder/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

func setupTestRouter(lim limiter.Limiter) http.Handler {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	d := directory.New(store.NewMockStore(), geocode.NewMockResolver(), m, logger.Nop())
	return SetupRouter(handler.NewStoreHandler(d), lim, m, reg, logger.Nop())
}

// TestRouter_Routes tests every route is mounted
func TestRouter_Routes(t *testing.T) {
	r := setupTestRouter(limiter.NewMockLimiter(true))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/v1/stores", http.StatusOK},
		{http.MethodGet, "/v1/stores/1", http.StatusOK},
		{http.MethodGet, "/v1/stores/search?name=", http.StatusBadRequest},
		{http.MethodDelete, "/v1/stores/2", http.StatusOK},
		{http.MethodGet, "/v1/closest", http.StatusBadRequest},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
		{http.MethodPatch, "/v1/stores/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

// TestRouter_Metrics tests /metrics serves the application registry
func TestRouter_Metrics(t *testing.T) {
	r := setupTestRouter(limiter.NewMockLimiter(true))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/stores/1", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{endpoint="/v1/stores/{id}",method="GET",status="200"} 1`,
		`store_operations_total{operation="get",result="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %s", want)
		}
	}
}

// TestRouter_RateLimited tests the limiter guards every route
func TestRouter_RateLimited(t *testing.T) {
	mockLimiter := limiter.NewMockLimiter(false)
	r := setupTestRouter(mockLimiter)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/stores", nil)
	req.Header.Set("X-Real-IP", "10.1.2.3")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rec.Code)
	}
	if len(mockLimiter.AllowCalls) != 1 || mockLimiter.AllowCalls[0] != "10.1.2.3" {
		t.Errorf("expected limiter keyed by real IP, got %v", mockLimiter.AllowCalls)
	}
}

// TestRouter_Swagger tests the generated docs are served
func TestRouter_Swagger(t *testing.T) {
	r := setupTestRouter(limiter.NewMockLimiter(true))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/v1/closest") {
		t.Error("expected swagger doc to describe /v1/closest")
	}
}

// setupSQLiteRouter serves a directory backed by a real SQLite store
func setupSQLiteRouter(t *testing.T) http.Handler {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateStoreTable(context.Background(), directory.DefaultTableName); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	d := directory.New(s, geocode.NewMockResolver(), m, logger.Nop())

	for name, postcode := range map[string]string{
		"Aberdeen": "AB10 1HW",
		"Leeds":    "LS1 4DY",
		"Hull":     "HU3 1TY",
		"York":     "YO1 7HH",
	} {
		if !d.AddStore(context.Background(), postcode, models.Record{"name": name}) {
			t.Fatalf("failed to seed %s", name)
		}
	}

	return SetupRouter(handler.NewStoreHandler(d), limiter.NewMockLimiter(true), m, reg, logger.Nop())
}

// TestRouter_ClosestOverSQLite tests /v1/closest end to end against the distance query
func TestRouter_ClosestOverSQLite(t *testing.T) {
	r := setupSQLiteRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		want   []string
	}{
		{name: "by postcode", target: "/v1/closest?postcode=WF8%204PQ&max_distance=100&limit=2", status: http.StatusOK, want: []string{"Leeds", "York"}},
		{name: "by lat lng", target: "/v1/closest?lat=53.6918&lng=-1.312&max_distance=100&limit=10", status: http.StatusOK, want: []string{"Leeds", "York", "Hull"}},
		{name: "default radius", target: "/v1/closest?postcode=WF8%204PQ", status: http.StatusOK, want: []string{"Leeds", "York", "Hull"}},
		{name: "nothing in range", target: "/v1/closest?postcode=WF8%204PQ&max_distance=2", status: http.StatusNotFound},
		{name: "unknown postcode", target: "/v1/closest?postcode=ZZ9%209ZZ", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}

			var resp models.StoresResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Stores) != len(tt.want) {
				t.Fatalf("expected %d stores, got %v", len(tt.want), resp.Stores)
			}
			for i, name := range tt.want {
				if resp.Stores[i].Name() != name {
					t.Errorf("position %d: expected %s, got %s", i, name, resp.Stores[i].Name())
				}
				if _, ok := resp.Stores[i].Distance(); !ok {
					t.Errorf("%s: expected a distance in the response", name)
				}
			}
		})
	}
}
