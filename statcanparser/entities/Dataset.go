package entities

// Dataset is the parsed, in-memory tabular representation of a table: an
// ordered set of named columns and an ordered sequence of rows. No schema is
// enforced beyond what the source file contains.
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NumColumns returns the number of named columns.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// NumRows returns the number of data rows (the header is not a row).
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column in row order.
func (d *Dataset) Column(name string) ([]string, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		}
	}
	return values, true
}

// Head returns a dataset holding at most n rows, sharing the underlying data.
// Used for log and response previews of large tables.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return &Dataset{Columns: d.Columns, Rows: d.Rows[:n]}
}
