package domain

// Table is a column-oriented input table: a header plus positional rows.
// Cells may hold strings, numbers or booleans.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MissingColumns returns every name in required absent from the header, in required order.
func (t Table) MissingColumns(required []string) []string {
	idx := t.index()
	var missing []string
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Cell returns the value of column col in row i, or nil when the row is short.
func (t Table) Cell(i int, col string) any {
	j, ok := t.index()[col]
	if !ok || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return nil
	}
	return t.Rows[i][j]
}

func (t Table) index() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}
