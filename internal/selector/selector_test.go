package selector

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

var supplierCols = []string{domain.ColMaterialReference, domain.ColSupplierID, domain.ColSupplierArticleNumber}

func TestSelect_LowestNumericSupplierWins(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"M1", "9", "A-9"},
		[]string{"M1", "10", "A-10"},
		[]string{"M2", "200", "B-200"},
		[]string{"M1", "100", "A-100"},
		[]string{"M2", "30", "B-30"},
	)

	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	// string ordering would pick "10" and "200"
	assert.Equal(t, table.String("M1"), out.Rows[0].Get(domain.ColMaterialReference))
	assert.Equal(t, table.String("9"), out.Rows[0].Get(domain.ColSupplierID))
	assert.Equal(t, table.String("A-9"), out.Rows[0].Get(domain.ColSupplierArticleNumber))
	assert.Equal(t, table.String("M2"), out.Rows[1].Get(domain.ColMaterialReference))
	assert.Equal(t, table.String("30"), out.Rows[1].Get(domain.ColSupplierID))
	assert.Equal(t, supplierCols, out.Columns)
}

func TestSelect_TieKeepsFirstEncountered(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"M1", "5", "first"},
		[]string{"M1", "05", "second"},
		[]string{"M1", "5", "third"},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, table.String("first"), out.Rows[0].Get(domain.ColSupplierArticleNumber))
}

func TestSelect_MissingTieRanksLast(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"M1", "", "none"},
		[]string{"M1", "7", "seven"},
		[]string{"M2", "", "only"},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, table.String("seven"), out.Rows[0].Get(domain.ColSupplierArticleNumber))
	assert.Equal(t, table.String("only"), out.Rows[1].Get(domain.ColSupplierArticleNumber))
}

func TestSelect_DropsMissingGroup(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"", "1", "orphan"},
		[]string{"M1", "2", "kept"},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, table.String("kept"), out.Rows[0].Get(domain.ColSupplierArticleNumber))
}

func TestSelect_NumberValues(t *testing.T) {
	src := table.New(supplierCols...)
	src.Append(table.Record{domain.ColMaterialReference: table.String("M1"), domain.ColSupplierID: table.Number(12)})
	src.Append(table.Record{domain.ColMaterialReference: table.String("M1"), domain.ColSupplierID: table.String("3")})

	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, table.String("3"), out.Rows[0].Get(domain.ColSupplierID))
}

func TestSelect_LargeIdentifiersCompareExactly(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"M1", "90071992547409931", "b"},
		[]string{"M1", "90071992547409930", "a"},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	assert.Equal(t, table.String("a"), out.Rows[0].Get(domain.ColSupplierArticleNumber))
}

func TestSelect_EmptyAndNil(t *testing.T) {
	out, err := Select(nil, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	assert.True(t, out.Empty())

	out, err = Select(table.New(supplierCols...), domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	assert.True(t, out.Empty())
	assert.Equal(t, supplierCols, out.Columns)
}

func TestSelect_NonNumericFails(t *testing.T) {
	for _, id := range []string{"S-1", "0x10", "1/2", "1_000", "1,000", "Inf", ".5"} {
		t.Run(id, func(t *testing.T) {
			src := table.FromRows(supplierCols, []string{"M1", id, "x"})
			_, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNonNumericTieBreak)
		})
	}
}

func TestSelect_DecimalForms(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"M1", "1.5e2", "a"},
		[]string{"M1", "+20", "b"},
		[]string{"M1", "100.0", "c"},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, table.String("+20"), out.Rows[0][domain.ColSupplierID])
}

func TestSelect_OnePerGroupAndMinimal(t *testing.T) {
	src := table.FromRows(supplierCols,
		[]string{"A", "3", ""}, []string{"B", "1", ""}, []string{"A", "2", ""},
		[]string{"C", "8", ""}, []string{"B", "1", ""}, []string{"A", "11", ""},
		[]string{"C", "4", ""}, []string{"B", "6", ""},
	)
	out, err := Select(src, domain.ColMaterialReference, domain.ColSupplierID)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, rec := range out.Rows {
		group, _ := rec.Get(domain.ColMaterialReference).Str()
		assert.False(t, seen[group], "group %s returned twice", group)
		seen[group] = true

		chosen, err := numeric(rec.Get(domain.ColSupplierID))
		require.NoError(t, err)
		for _, other := range src.Rows {
			if g, _ := other.Get(domain.ColMaterialReference).Str(); g != group {
				continue
			}
			v, err := numeric(other.Get(domain.ColSupplierID))
			require.NoError(t, err)
			assert.LessOrEqual(t, chosen.Cmp(v), 0)
		}
	}
	assert.Len(t, seen, 3)
}

func TestLess(t *testing.T) {
	one, two := big.NewRat(1, 1), big.NewRat(2, 1)
	assert.True(t, less(one, two))
	assert.False(t, less(two, one))
	assert.False(t, less(one, one))
	assert.True(t, less(one, nil))
	assert.False(t, less(nil, one))
	assert.False(t, less(nil, nil))
}
