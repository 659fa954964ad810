package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

func TestProject_FixedLayout(t *testing.T) {
	inputs := map[string]*table.Table{
		"nil":     nil,
		"empty":   table.New(),
		"partial": table.FromRows([]string{domain.ColStorageBin, "Extra", domain.ColMaterialReference}, []string{"B1", "x", "M1"}),
		"full":    table.FromRows(domain.OutputColumns, make([]string, len(domain.OutputColumns))),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			out := Project(in, domain.OutputColumns)
			assert.Equal(t, domain.OutputColumns, out.Columns)
			assert.Equal(t, in.Len(), out.Len())
		})
	}
}

func TestProject_FillsAndDrops(t *testing.T) {
	in := table.FromRows([]string{"B", "Extra", "A"}, []string{"b1", "x", "a1"}, []string{"b2", "y", ""})
	out := Project(in, []string{"A", "B", "C"})

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"A", "B", "C"}, out.Columns)
	assert.Equal(t, table.String("a1"), out.Rows[0].Get("A"))
	assert.Equal(t, table.String("b1"), out.Rows[0].Get("B"))
	assert.True(t, out.Rows[0].Get("C").IsMissing())
	_, hasExtra := out.Rows[0]["Extra"]
	assert.False(t, hasExtra)
	assert.True(t, out.Rows[1].Get("A").IsMissing())
	assert.Len(t, out.Rows[1], 3)
}

func TestAbsent(t *testing.T) {
	in := table.New("A", "C")
	assert.Equal(t, []string{"B", "D"}, Absent(in, []string{"A", "B", "C", "D"}))
	assert.Empty(t, Absent(in, []string{"A"}))
}
