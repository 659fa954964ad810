package join

import (
	"fmt"
	"slices"

	"matagg/internal/table"
)

// Stats describes the outcome of a single left join.
type Stats struct {
	LeftRows   int
	RightRows  int
	OutputRows int
	// Matched counts left rows that found at least one right row.
	Matched int
	// FanOut counts extra rows produced by right-side keys that are not
	// unique. It is zero whenever the right side is unique on the key.
	FanOut int
	// Collisions lists non-key columns present on both sides. The right
	// value wins on matched rows.
	Collisions []string
}

// LeftJoin keeps every row of left and attaches the non-key columns of the
// matching right rows. Rows whose key holds a missing value never match.
// Unmatched rows get Missing for the right-only columns and keep their own
// values for colliding columns. The inputs are not modified.
func LeftJoin(left, right *table.Table, on table.Key) (*table.Table, Stats, error) {
	if len(on) == 0 {
		return nil, Stats{}, fmt.Errorf("join key is empty")
	}
	for _, col := range on {
		if !right.HasColumn(col) {
			return nil, Stats{}, fmt.Errorf("right table has no key column %s", col)
		}
		if !left.HasColumn(col) {
			return nil, Stats{}, fmt.Errorf("left table has no key column %s", col)
		}
	}

	stats := Stats{LeftRows: left.Len(), RightRows: right.Len()}

	var attach []string
	for _, col := range right.Columns {
		if slices.Contains(on, col) {
			continue
		}
		attach = append(attach, col)
		if left.HasColumn(col) {
			stats.Collisions = append(stats.Collisions, col)
		}
	}

	index := make(map[string][]table.Record, right.Len())
	for _, rec := range right.Rows {
		if on.HasMissing(rec) {
			continue
		}
		k := table.Encode(on.Tuple(rec))
		index[k] = append(index[k], rec)
	}

	out := table.New(left.Columns...)
	for _, col := range attach {
		if !out.HasColumn(col) {
			out.Columns = append(out.Columns, col)
		}
	}
	out.Rows = make([]table.Record, 0, left.Len())

	for _, lrec := range left.Rows {
		var matches []table.Record
		if !on.HasMissing(lrec) {
			matches = index[table.Encode(on.Tuple(lrec))]
		}
		if len(matches) == 0 {
			rec := lrec.Clone()
			for _, col := range attach {
				if !left.HasColumn(col) {
					rec[col] = table.Missing()
				}
			}
			out.Append(rec)
			continue
		}
		stats.Matched++
		stats.FanOut += len(matches) - 1
		for _, rrec := range matches {
			rec := lrec.Clone()
			for _, col := range attach {
				rec[col] = rrec.Get(col)
			}
			out.Append(rec)
		}
	}
	stats.OutputRows = out.Len()
	return out, stats, nil
}
