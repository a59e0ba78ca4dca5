package quarry

// Table is the loaded tabular result: a rectangular, header-named set of
// columns. A Table is immutable by convention; accessors never modify it.
type Table struct {
	// Header holds the column names in file order.
	Header []string

	// Rows holds the data rows. Every row has exactly len(Header) fields.
	Rows [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Header)
}

// Row returns the i-th data row. It panics when i is out of range, matching
// slice indexing semantics.
func (t *Table) Row(i int) []string {
	return t.Rows[i]
}

// Column returns the values of the named column and whether the column
// exists.
func (t *Table) Column(name string) ([]string, bool) {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Head returns a view over the first n rows (fewer when the table is
// shorter). The header and row slices are shared with the receiver.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Header: t.Header, Rows: t.Rows[:n]}
}
