package formatting

// Table is the canonical in-memory shape for tabular provider payloads:
// ordered column labels and one row of cells per record. Cells hold nil for
// missing values, strings, or numeric types depending on the provider.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable creates an empty table with the given column labels.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a record. Short rows are padded with nil so every row has
// one cell per column.
func (t *Table) AddRow(cells ...any) {
	for len(cells) < len(t.Columns) {
		cells = append(cells, nil)
	}
	t.Rows = append(t.Rows, cells)
}

// IsEmpty reports whether the table has no records.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Head returns a table containing at most n leading records. The column
// slice is shared; rows are re-sliced, not copied.
func (t *Table) Head(n int) *Table {
	if t == nil || n >= len(t.Rows) {
		return t
	}
	if n < 0 {
		n = 0
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// ColumnIndex returns the position of a column label, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Filter returns a table with only the rows for which keep returns true.
func (t *Table) Filter(keep func(row []any) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
