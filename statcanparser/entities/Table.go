package entities

import "time"

// Table is a fetched dataset together with its identity, as held by the
// serving layer.
type Table struct {
	ID        string    `json:"id"`
	Language  Language  `json:"language"`
	FetchedAt time.Time `json:"fetchedAt"`
	Dataset   *Dataset  `json:"dataset,omitempty"`
}

// TableKey builds the lookup key for a (table id, language) pair.
func TableKey(tableID string, language Language) string {
	return tableID + "-" + language.Code()
}

// Key returns the table's own lookup key.
func (t Table) Key() string {
	return TableKey(t.ID, t.Language)
}
