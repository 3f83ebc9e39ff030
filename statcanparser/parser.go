package statcanparser

import (
	"time"

	"github.com/giygas/statcan-api/interfaces"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

// Compile-time check to ensure StatcanParser implements the Parser interface
var _ interfaces.Parser = (*StatcanParser)(nil)

// StatcanParser implements the Parser interface over GetTable/RefreshTable
// with a fixed cache root.
type StatcanParser struct {
	cacheDir string
}

// NewStatcanParser creates a parser using the given cache root. An empty
// cacheDir selects DefaultCacheDir.
func NewStatcanParser(cacheDir string) *StatcanParser {
	return &StatcanParser{cacheDir: cacheDir}
}

// CacheDir returns the resolved cache root the parser writes under.
func (p *StatcanParser) CacheDir() string {
	if p.cacheDir == "" {
		return DefaultCacheDir()
	}
	return p.cacheDir
}

// FetchTable implements the Parser interface
func (p *StatcanParser) FetchTable(tableID string, language entities.Language) (*entities.Table, error) {
	dataset, err := GetTable(tableID, language, p.cacheDir)
	if err != nil {
		return nil, err
	}
	return &entities.Table{
		ID:        tableID,
		Language:  language,
		FetchedAt: time.Now(),
		Dataset:   dataset,
	}, nil
}

// RefreshTable implements the Parser interface
func (p *StatcanParser) RefreshTable(tableID string, language entities.Language) (*entities.Table, error) {
	dataset, err := RefreshTable(tableID, language, p.cacheDir)
	if err != nil {
		return nil, err
	}
	return &entities.Table{
		ID:        tableID,
		Language:  language,
		FetchedAt: time.Now(),
		Dataset:   dataset,
	}, nil
}
