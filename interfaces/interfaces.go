// Package interfaces defines core abstractions for the statcan API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/giygas/statcan-api/statcanparser/entities"
)

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to fetched tables with atomic operations
// for zero-downtime updates.
type DataStore interface {
	// Data retrieval methods
	GetTables() map[string]entities.Table
	GetTable(tableID string, language entities.Language) (entities.Table, bool)
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateTables(tables map[string]entities.Table)
	SetTable(table entities.Table)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for fetching table data from the provider.
// It handles downloading, caching, and parsing archives into datasets.
type Parser interface {
	// FetchTable returns the table, reusing the local cache when present
	FetchTable(tableID string, language entities.Language) (*entities.Table, error)

	// RefreshTable discards the cached copy and fetches the table again
	RefreshTable(tableID string, language entities.Language) (*entities.Table, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated table refreshes and system health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// DataValidator defines the contract for request input validation.
// It screens user-supplied identifiers before they reach the data layer.
type DataValidator interface {
	// ValidateTableID checks the shape of a table id and returns it in
	// canonical dashed form
	ValidateTableID(input string) (string, error)

	// ValidateLanguage converts a language query parameter
	ValidateLanguage(input string) (entities.Language, error)

	// ValidateInput validates user input strings
	ValidateInput(input string) error
}
