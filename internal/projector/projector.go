// Package projector shapes the joined table into the fixed report layout.
package projector

import (
	"slices"

	"matagg/internal/table"
)

// Project returns a table with exactly columns, in that order. Columns the
// input lacks are filled with Missing on every row and columns not listed
// are dropped.
func Project(t *table.Table, columns []string) *table.Table {
	out := table.New(columns...)
	if t == nil {
		return out
	}
	out.Rows = make([]table.Record, 0, t.Len())
	for _, rec := range t.Rows {
		row := make(table.Record, len(columns))
		for _, col := range columns {
			row[col] = rec.Get(col)
		}
		out.Append(row)
	}
	return out
}

// Absent returns the columns that t does not declare.
func Absent(t *table.Table, columns []string) []string {
	var missing []string
	for _, col := range columns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return slices.Clip(missing)
}
