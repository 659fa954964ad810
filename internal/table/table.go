package table

import (
	"slices"
	"strconv"
	"strings"
)

// Record is a single row addressed by column name. A column that is not
// set reads as Missing.
type Record map[string]Value

// Get returns the value stored under col, or Missing.
func (r Record) Get(col string) Value {
	if r == nil {
		return Missing()
	}
	return r[col]
}

// Clone returns a shallow copy of r. Values are immutable so this is a
// full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns and rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// FromRows builds a table from literal string rows. Empty strings become
// Missing, mirroring how empty spreadsheet cells are read.
func FromRows(columns []string, rows ...[]string) *Table {
	t := New(columns...)
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) && row[i] != "" {
				rec[col] = String(row[i])
			} else {
				rec[col] = Missing()
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// Len returns the number of rows. A nil table has zero rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether t is nil or has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// HasColumn reports whether col is declared on t.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Columns, col)
}

// HasColumns reports whether every column in cols is declared on t.
func (t *Table) HasColumns(cols ...string) bool {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return false
		}
	}
	return true
}

// Append adds a row to t.
func (t *Table) Append(rec Record) {
	t.Rows = append(t.Rows, rec)
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Column returns the values of col in row order.
func (t *Table) Column(col string) []Value {
	out := make([]Value, t.Len())
	for i, r := range t.Rows {
		out[i] = r.Get(col)
	}
	return out
}

// Key is an ordered list of column names.
type Key []string

// Tuple returns the values of the key columns of rec.
func (k Key) Tuple(rec Record) []Value {
	out := make([]Value, len(k))
	for i, col := range k {
		out[i] = rec.Get(col)
	}
	return out
}

// HasMissing reports whether any key column of rec is Missing.
func (k Key) HasMissing(rec Record) bool {
	for _, col := range k {
		if rec.Get(col).IsMissing() {
			return true
		}
	}
	return false
}

// String renders the key as [a b c].
func (k Key) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

// Encode renders a tuple as a single unambiguous string so tuples can be
// used as map keys. Each value is tagged with its kind and length so
// "1" and 1 never collide and no separator can be forged.
func Encode(tuple []Value) string {
	var b strings.Builder
	for _, v := range tuple {
		switch v.Kind() {
		case KindString:
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(v.str)))
			b.WriteByte(':')
			b.WriteString(v.str)
		case KindNumber:
			s, _ := v.Text()
			b.WriteByte('n')
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
			b.WriteString(s)
		default:
			b.WriteByte('m')
		}
	}
	return b.String()
}

// FormatTuple renders a tuple for log messages.
func FormatTuple(tuple []Value) string {
	parts := make([]string, len(tuple))
	for i, v := range tuple {
		parts[i] = v.GoString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
