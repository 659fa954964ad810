package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Kinds(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.Equal(t, KindMissing, Value{}.Kind())

	s := String("")
	assert.False(t, s.IsMissing(), "empty string is present")
	txt, ok := s.Text()
	assert.True(t, ok)
	assert.Equal(t, "", txt)

	n := Number(1234)
	txt, ok = n.Text()
	assert.True(t, ok)
	assert.Equal(t, "1234", txt)

	_, ok = Missing().Text()
	assert.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"missing equals missing", Missing(), Missing(), true},
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"string vs number", String("1"), Number(1), false},
		{"missing vs empty", Missing(), String(""), false},
		{"same number", Number(2.5), Number(2.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestFromRows(t *testing.T) {
	tbl := FromRows([]string{"A", "B"}, []string{"x", ""}, []string{"y"})
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, String("x"), tbl.Rows[0].Get("A"))
	assert.True(t, tbl.Rows[0].Get("B").IsMissing())
	assert.True(t, tbl.Rows[1].Get("B").IsMissing())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	orig := FromRows([]string{"A"}, []string{"x"})
	cp := orig.Clone()
	cp.Rows[0]["A"] = String("changed")
	cp.Columns[0] = "Z"

	assert.Equal(t, String("x"), orig.Rows[0].Get("A"))
	assert.Equal(t, "A", orig.Columns[0])
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.Empty())
	assert.False(t, tbl.HasColumn("A"))
	assert.Nil(t, tbl.Clone())
}

func TestKey_TupleAndMissing(t *testing.T) {
	k := Key{"A", "B"}
	rec := Record{"A": String("1")}
	tuple := k.Tuple(rec)
	require.Len(t, tuple, 2)
	assert.Equal(t, String("1"), tuple[0])
	assert.True(t, tuple[1].IsMissing())
	assert.True(t, k.HasMissing(rec))
	assert.Equal(t, "[A B]", k.String())
}

func TestEncode_Unambiguous(t *testing.T) {
	assert.NotEqual(t,
		Encode([]Value{String("a"), String("bc")}),
		Encode([]Value{String("ab"), String("c")}))
	assert.NotEqual(t,
		Encode([]Value{String("1")}),
		Encode([]Value{Number(1)}))
	assert.NotEqual(t,
		Encode([]Value{Missing()}),
		Encode([]Value{String("")}))
	assert.Equal(t,
		Encode([]Value{String("M1"), Missing()}),
		Encode([]Value{String("M1"), Missing()}))
}

func TestFormatTuple(t *testing.T) {
	assert.Equal(t, `("M1", <missing>, 3)`, FormatTuple([]Value{String("M1"), Missing(), Number(3)}))
}
