// Package statcanparser downloads Statistics Canada data tables by their
// table id, caches the extracted CSV on local disk and parses it into an
// in-memory dataset. The cache is trusted blindly: a file at the expected
// path is reused without revalidation, and only an explicit refresh replaces
// it.
package statcanparser

import (
	"fmt"
	"os"
	"strings"

	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

// GetTable fetches a table and returns its parsed contents. The language zero
// value selects English; an empty cacheDir selects DefaultCacheDir. On a
// cache hit no network access happens. Errors are one of ErrTransport,
// ErrFilesystem or ErrParse.
func GetTable(tableID string, language entities.Language, cacheDir string) (*entities.Dataset, error) {
	if strings.TrimSpace(tableID) == "" {
		return nil, fmt.Errorf("table id cannot be empty")
	}

	csvPath, err := downloadTable(tableID, language, cacheDir)
	if err != nil {
		return nil, err
	}

	dataset, err := readDataset(csvPath, language)
	if err != nil {
		return nil, err
	}

	logging.Info("Table ready",
		"table", tableID,
		"language", language.Code(),
		"rows", dataset.NumRows(),
		"columns", dataset.NumColumns())

	return dataset, nil
}

// RefreshTable discards the cached CSV for the pair and fetches the table
// again. GetTable itself never invalidates a cache entry; this is the
// explicit path used for periodic updates.
func RefreshTable(tableID string, language entities.Language, cacheDir string) (*entities.Dataset, error) {
	if strings.TrimSpace(tableID) == "" {
		return nil, fmt.Errorf("table id cannot be empty")
	}

	dir := cacheDir
	if dir == "" {
		dir = DefaultCacheDir()
	}
	_, _, csvPath := cachePaths(dir, tableID, language)

	if err := os.Remove(csvPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: removing %s: %w", ErrFilesystem, csvPath, err)
	}

	return GetTable(tableID, language, cacheDir)
}
