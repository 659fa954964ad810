package exporter

import (
	"matagg/internal/table"
)

// cellText renders a value for CSV output. Missing values become empty
// fields.
func cellText(v table.Value) string {
	s, _ := v.Text()
	return s
}

// cellValue renders a value for a workbook cell. Missing values leave the
// cell empty and numbers stay numeric.
func cellValue(v table.Value) interface{} {
	if f, ok := v.Num(); ok {
		return f
	}
	if s, ok := v.Str(); ok {
		return s
	}
	return nil
}

// records renders the rows of t in column order.
func records(t *table.Table) [][]string {
	out := make([][]string, 0, t.Len())
	for _, rec := range t.Rows {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = cellText(rec.Get(col))
		}
		out = append(out, row)
	}
	return out
}
