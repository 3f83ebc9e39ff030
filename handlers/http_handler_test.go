package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/statcan-api/data"
	"github.com/giygas/statcan-api/statcanparser/entities"
	"github.com/giygas/statcan-api/validation"
	"github.com/go-chi/chi/v5"
)

// newTestRouter wires the handler into a chi router with a seeded container,
// the same routes the server registers
func newTestRouter(tables ...entities.Table) http.Handler {
	container := data.NewDataContainer()
	for _, table := range tables {
		container.SetTable(table)
	}

	handler := NewHTTPHandler(container, validation.NewDataValidator())

	router := chi.NewRouter()
	router.Get("/tables", handler.ServeTables)
	router.Get("/tables/{tableID}", handler.ServeTable)
	router.Get("/tables/{tableID}/columns", handler.ServeTableColumns)
	router.Get("/health", handler.HealthCheck)
	return router
}

func sampleTable(id string, language entities.Language) entities.Table {
	return entities.Table{
		ID:        id,
		Language:  language,
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Dataset: &entities.Dataset{
			Columns: []string{"REF_DATE", "GEO", "VALUE"},
			Rows: [][]string{
				{"2020-01", "Canada", "100"},
				{"2020-02", "Canada", "101"},
			},
		},
	}
}

func doRequest(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestServeTables(t *testing.T) {
	router := newTestRouter(
		sampleTable("18-10-0004", entities.English),
		sampleTable("14-10-0287", entities.English),
		sampleTable("14-10-0287", entities.French),
	)

	rec := doRequest(t, router, "/tables")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Unexpected content type: %s", ct)
	}

	var summaries []TableSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}
	// Listing is sorted by id then language
	if summaries[0].ID != "14-10-0287" || summaries[0].Language != "eng" {
		t.Errorf("Unexpected first entry: %+v", summaries[0])
	}
	if summaries[1].Language != "fra" {
		t.Errorf("Expected French variant second, got %+v", summaries[1])
	}
	if summaries[2].ID != "18-10-0004" {
		t.Errorf("Unexpected last entry: %+v", summaries[2])
	}
	if summaries[0].Columns != 3 || summaries[0].Rows != 2 {
		t.Errorf("Unexpected dimensions: %+v", summaries[0])
	}
}

func TestServeTablesEmpty(t *testing.T) {
	rec := doRequest(t, newTestRouter(), "/tables")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestServeTable(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	rec := doRequest(t, router, "/tables/14-10-0287")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var table entities.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if table.ID != "14-10-0287" || table.Language != entities.English {
		t.Errorf("Unexpected table identity: %+v", table)
	}
	if table.Dataset == nil || table.Dataset.NumRows() != 2 {
		t.Error("Expected full dataset in response")
	}
}

func TestServeTableLanguageVariant(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	// The French variant is not loaded
	rec := doRequest(t, router, "/tables/14-10-0287?lang=fra")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unloaded language variant, got %d", rec.Code)
	}

	// Explicit English works
	rec = doRequest(t, router, "/tables/14-10-0287?lang=eng")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for explicit eng, got %d", rec.Code)
	}
}

func TestServeTableInvalidInput(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	rec := doRequest(t, router, "/tables/not-a-table")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", rec.Code)
	}

	var errorResponse map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &errorResponse); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errorResponse["error"] != "Bad Request" {
		t.Errorf("Unexpected error field: %v", errorResponse["error"])
	}

	rec = doRequest(t, router, "/tables/14-10-0287?lang=klingon")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported language, got %d", rec.Code)
	}
}

func TestServeTableNotLoaded(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	rec := doRequest(t, router, "/tables/98-10-0001")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unloaded table, got %d", rec.Code)
	}
}

func TestServeTableColumns(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	rec := doRequest(t, router, "/tables/14-10-0287/columns")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var payload struct {
		ID       string   `json:"id"`
		Language string   `json:"language"`
		Columns  []string `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.ID != "14-10-0287" || payload.Language != "eng" {
		t.Errorf("Unexpected identity: %+v", payload)
	}
	if len(payload.Columns) != 3 || payload.Columns[2] != "VALUE" {
		t.Errorf("Unexpected columns: %v", payload.Columns)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(sampleTable("14-10-0287", entities.English))

	rec := doRequest(t, router, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", health["status"])
	}
	if health["table_count"] != float64(1) {
		t.Errorf("Expected table_count 1, got %v", health["table_count"])
	}
	if health["is_updating"] != false {
		t.Errorf("Expected is_updating false, got %v", health["is_updating"])
	}
	if _, ok := health["next_update"]; !ok {
		t.Error("Expected next_update to be present")
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	testCases := []struct {
		duration time.Duration
		expected string
	}{
		{42 * time.Second, "42s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{2*time.Hour + 5*time.Minute, "2h 5m 0s"},
		{26*time.Hour + 30*time.Minute, "1d 2h 30m 0s"},
	}

	for _, tc := range testCases {
		if got := formatUptimeHuman(tc.duration); got != tc.expected {
			t.Errorf("formatUptimeHuman(%v) = %q, expected %q", tc.duration, got, tc.expected)
		}
	}
}
