package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/statcan-api/config"
	"github.com/giygas/statcan-api/data"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

func newTestServer() *Server {
	cfg := &config.Config{
		Port:           "8000",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}

	container := data.NewDataContainer()
	container.SetTable(entities.Table{
		ID:        "14-10-0287",
		Language:  entities.English,
		FetchedAt: time.Now(),
		Dataset: &entities.Dataset{
			Columns: []string{"REF_DATE", "GEO", "VALUE"},
			Rows:    [][]string{{"2020-01", "Canada", "100"}},
		},
	})

	return NewServer(cfg, container)
}

// End-to-end through the full middleware chain
func TestServerRoutes(t *testing.T) {
	srv := newTestServer()

	testCases := []struct {
		path     string
		expected int
	}{
		{"/health", http.StatusOK},
		{"/tables", http.StatusOK},
		{"/tables/14-10-0287", http.StatusOK},
		{"/tables/14-10-0287/columns", http.StatusOK},
		{"/tables/99-99-9999", http.StatusNotFound},
		{"/metrics", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != tc.expected {
			t.Errorf("GET %s: expected %d, got %d", tc.path, tc.expected, rec.Code)
		}
	}
}

func TestServerHealthPayload(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode health payload: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", health["status"])
	}
}

func TestServerCORSHeaders(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard CORS origin, got %q",
			rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
