// Package handlers provides HTTP request handlers for the statcan API
// endpoints: table listing and lookup, column introspection, and health
// checks, with input validation and consistent JSON responses.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/giygas/statcan-api/interfaces"
	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/scheduler"
	"github.com/giygas/statcan-api/statcanparser/entities"
	"github.com/go-chi/chi/v5"
)

// HTTPHandler bundles the API endpoints with their injected dependencies
type HTTPHandler struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator) *HTTPHandler {
	return &HTTPHandler{
		dataStore: dataStore,
		validator: validator,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandler) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandler) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// TableSummary is the listing entry for a loaded table
type TableSummary struct {
	ID        string `json:"id"`
	Language  string `json:"language"`
	Columns   int    `json:"columns"`
	Rows      int    `json:"rows"`
	FetchedAt string `json:"fetchedAt"`
}

// ServeTables lists the tables currently held in memory
func (h *HTTPHandler) ServeTables(w http.ResponseWriter, r *http.Request) {
	tables := h.dataStore.GetTables()

	summaries := make([]TableSummary, 0, len(tables))
	for _, table := range tables {
		summary := TableSummary{
			ID:        table.ID,
			Language:  table.Language.Code(),
			FetchedAt: table.FetchedAt.Format(time.RFC3339),
		}
		if table.Dataset != nil {
			summary.Columns = table.Dataset.NumColumns()
			summary.Rows = table.Dataset.NumRows()
		}
		summaries = append(summaries, summary)
	}

	// Map iteration order is random, keep the listing stable
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ID != summaries[j].ID {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].Language < summaries[j].Language
	})

	h.RespondWithJSON(w, http.StatusOK, summaries)
}

// lookupTable resolves the table id and lang query parameter of a request.
// It writes the error response itself and reports success with ok.
func (h *HTTPHandler) lookupTable(w http.ResponseWriter, r *http.Request) (entities.Table, bool) {
	tableID, err := h.validator.ValidateTableID(chi.URLParam(r, "tableID"))
	if err != nil {
		logging.Warn("Unusual user input", "tableID", chi.URLParam(r, "tableID"))
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return entities.Table{}, false
	}

	language, err := h.validator.ValidateLanguage(r.URL.Query().Get("lang"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return entities.Table{}, false
	}

	table, ok := h.dataStore.GetTable(tableID, language)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound,
			fmt.Sprintf("table %s (%s) is not loaded", tableID, language.Code()))
		return entities.Table{}, false
	}

	return table, true
}

// ServeTable returns the full dataset of a loaded table
func (h *HTTPHandler) ServeTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.lookupTable(w, r)
	if !ok {
		return
	}

	h.RespondWithJSON(w, http.StatusOK, table)
}

// ServeTableColumns returns the column names of a loaded table
func (h *HTTPHandler) ServeTableColumns(w http.ResponseWriter, r *http.Request) {
	table, ok := h.lookupTable(w, r)
	if !ok {
		return
	}

	columns := []string{}
	if table.Dataset != nil {
		columns = table.Dataset.Columns
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":       table.ID,
		"language": table.Language.Code(),
		"columns":  columns,
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// HealthCheck reports service status, data freshness and memory usage
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	lastUpdate := h.dataStore.GetLastUpdated()
	uptime := time.Since(h.dataStore.GetServerStartTime())

	status := map[string]interface{}{
		"status":          "healthy",
		"uptime":          formatUptimeHuman(uptime),
		"memory_usage_mb": int(m.Alloc / 1024 / 1024),
		"table_count":     len(h.dataStore.GetTables()),
		"last_update":     lastUpdate.Format(time.RFC3339),
		"next_update":     scheduler.CalculateNextUpdate().Format(time.RFC3339),
		"is_updating":     h.dataStore.IsUpdating(),
	}

	h.RespondWithJSON(w, http.StatusOK, status)
}
