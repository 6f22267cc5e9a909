package pivot

// Cell is one wide-matrix slot: a numeric value, or nothing.
type Cell struct {
	Value float64
	Set   bool
}

// WideRow is one output row: a station's readings for a single date, one
// cell per code column.
type WideRow struct {
	Station string
	Date    string
	Cells   []Cell
}

// WideMatrix is the wide-format result of a reshape: one row per distinct
// date, one column per distinct code. Codes are sorted ascending; rows keep
// the first-occurrence order of dates in the source file.
type WideMatrix struct {
	Codes []string
	Rows  []WideRow
}

// Headers returns the workbook header row for the matrix.
func (m *WideMatrix) Headers() []string {
	headers := make([]string, 0, len(m.Codes)+2)
	headers = append(headers, "Station", "Date")
	return append(headers, m.Codes...)
}

// Column returns the cells of one code column and whether the code is a
// column of the matrix.
func (m *WideMatrix) Column(code string) ([]Cell, bool) {
	idx := -1
	for i, c := range m.Codes {
		if c == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	cells := make([]Cell, len(m.Rows))
	for i, row := range m.Rows {
		cells[i] = row.Cells[idx]
	}
	return cells, true
}
