package validation

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"matagg/internal/table"
)

// DuplicateGroup is a set of rows that share one key tuple.
type DuplicateGroup struct {
	Tuple []table.Value
	Rows  []int
}

// FindDuplicates returns every key tuple that occurs on more than one row
// of t, in order of first occurrence. Missing values compare equal to each
// other, so two rows that both lack a key value are duplicates.
func FindDuplicates(t *table.Table, key table.Key) []DuplicateGroup {
	type bucketEntry struct {
		encoded string
		group   *DuplicateGroup
	}
	buckets := make(map[uint64][]bucketEntry, t.Len())
	var groups []*DuplicateGroup

	for i, rec := range t.Rows {
		tuple := key.Tuple(rec)
		encoded := table.Encode(tuple)
		h := xxh3.HashString(encoded)

		var found *DuplicateGroup
		for _, e := range buckets[h] {
			if e.encoded == encoded {
				found = e.group
				break
			}
		}
		if found == nil {
			found = &DuplicateGroup{Tuple: tuple}
			buckets[h] = append(buckets[h], bucketEntry{encoded: encoded, group: found})
			groups = append(groups, found)
		}
		found.Rows = append(found.Rows, i)
	}

	var dups []DuplicateGroup
	for _, g := range groups {
		if len(g.Rows) > 1 {
			dups = append(dups, *g)
		}
	}
	return dups
}

// DuplicateRowCount counts every row that belongs to a duplicate group,
// first copies included.
func DuplicateRowCount(groups []DuplicateGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Rows)
	}
	return n
}

// rowsWithMissing returns the indices of rows with a Missing value in any
// key column.
func rowsWithMissing(t *table.Table, key table.Key) []int {
	var rows []int
	for i, rec := range t.Rows {
		if key.HasMissing(rec) {
			rows = append(rows, i)
		}
	}
	return rows
}

// sampleTuples renders up to limit tuples for log output.
func sampleTuples(groups []DuplicateGroup, limit int) []string {
	n := min(len(groups), limit)
	out := make([]string, 0, n)
	for _, g := range groups[:n] {
		out = append(out, table.FormatTuple(g.Tuple))
	}
	return out
}

func formatKey(key table.Key) string {
	return "[" + strings.Join(key, ", ") + "]"
}

func formatColumns(cols []string) string {
	return fmt.Sprintf("[%s]", strings.Join(cols, ", "))
}
