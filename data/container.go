// Package data provides thread-safe storage for fetched tables.
// The DataContainer uses atomic operations for zero-downtime updates and
// thread-safe access to the tables currently held in memory.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/statcan-api/interfaces"
	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/metrics"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the fetched tables with atomic pointers for
// zero-downtime updates. Tables are keyed by (table id, language).
type DataContainer struct {
	tables          atomic.Value // map[string]entities.Table
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.tables.Store(make(map[string]entities.Table))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Now())
	return dc
}

// Thread-safe getters with type check

// GetTables returns the map of loaded tables keyed by TableKey. The map must
// be treated as read-only; updates go through UpdateTables or SetTable.
func (dc *DataContainer) GetTables() map[string]entities.Table {
	if v := dc.tables.Load(); v != nil {
		if tables, ok := v.(map[string]entities.Table); ok {
			return tables
		}
	}

	logging.Warn("Tables map is empty or invalid")
	return make(map[string]entities.Table)
}

// GetTable returns a single loaded table for the pair
func (dc *DataContainer) GetTable(tableID string, language entities.Language) (entities.Table, bool) {
	table, ok := dc.GetTables()[entities.TableKey(tableID, language)]
	return table, ok
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating reports whether a refresh is currently running
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// GetServerStartTime returns when the container was created
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}
	return time.Time{}
}

// UpdateTables atomically replaces the whole table map (zero downtime swap)
func (dc *DataContainer) UpdateTables(tables map[string]entities.Table) {
	dc.tables.Store(tables)
	dc.lastUpdated.Store(time.Now())
	metrics.TablesLoaded.Set(float64(len(tables)))
}

// SetTable stores a single table using copy-on-write so concurrent readers
// never observe a partially built map
func (dc *DataContainer) SetTable(table entities.Table) {
	current := dc.GetTables()
	next := make(map[string]entities.Table, len(current)+1)
	for key, value := range current {
		next[key] = value
	}
	next[table.Key()] = table
	dc.UpdateTables(next)
}

// BeginUpdate marks an update as started, returns false if one is already running
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the running update as finished
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
