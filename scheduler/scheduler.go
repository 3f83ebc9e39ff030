// Package scheduler provides automated table refresh scheduling and health
// monitoring for the statcan API. It handles cron-based refreshes of the
// configured tables and coordinates updates with the data container using
// dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/statcan-api/interfaces"
	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/statcanparser/entities"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles table refreshes and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	tables    []string
	languages []entities.Language
	scheduler *gocron.Scheduler
	stopped   chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// It will keep the cartesian product of tables and languages loaded.
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser,
	tables []string, languages []entities.Language) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		tables:    tables,
		languages: languages,
		scheduler: gocron.NewScheduler(time.Local),
		stopped:   make(chan struct{}),
	}
}

// Start performs the initial load and schedules the twice-daily refreshes
func (s *Scheduler) Start() error {
	// Initial load goes through the cache: tables fetched in a previous run
	// are reused without network access
	if err := s.updateData(false); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	// Schedule refreshes at 06:00 and 18:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.updateData(true); err != nil {
			logging.Error("Failed to refresh tables", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule updates", "error", err)
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopped)
}

// updateData fetches every configured (table, language) pair and atomically
// swaps the container contents. With refresh set, cached copies are discarded
// first. A pair that fails keeps its previous snapshot.
func (s *Scheduler) updateData(refresh bool) error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting table update", "refresh", refresh, "tables", len(s.tables))
	start := time.Now()

	previous := s.dataStore.GetTables()
	next := make(map[string]entities.Table, len(s.tables)*len(s.languages))
	var failures int

	for _, tableID := range s.tables {
		for _, language := range s.languages {
			var table *entities.Table
			var err error

			if refresh {
				table, err = s.parser.RefreshTable(tableID, language)
			} else {
				table, err = s.parser.FetchTable(tableID, language)
			}

			if err != nil {
				failures++
				logging.Error("Failed to fetch table",
					"table", tableID,
					"language", language.Code(),
					"error", err)

				// Keep serving the previous snapshot for this pair
				if old, ok := previous[entities.TableKey(tableID, language)]; ok {
					next[old.Key()] = old
				}
				continue
			}

			next[table.Key()] = *table
		}
	}

	if len(next) == 0 && failures > 0 {
		return fmt.Errorf("all %d table fetches failed", failures)
	}

	// Atomic update using the injected data store
	s.dataStore.UpdateTables(next)

	elapsed := time.Since(start)
	logging.Info("Table update completed",
		"duration", elapsed.String(),
		"table_count", len(next),
		"failures", failures)

	return nil
}

// startHealthMonitoring monitors the freshness of the loaded tables
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopped:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Tables haven't been refreshed in over 25 hours")
				}
			}
		}
	}()
}

// CalculateNextUpdate returns the next scheduled refresh time
func CalculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	if now.Before(sixAM) {
		return sixAM
	}

	if now.Before(sixPM) {
		return sixPM
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, tomorrow.Location())
}
