package normalize

import (
	"fmt"
	"log/slog"

	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

// Binding assigns a rule to a column.
type Binding struct {
	Column string
	Rule   Rule
}

// Normalizer applies column bindings to tables.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the
// default slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Apply returns a copy of t with each bound column rewritten by its rule.
// Bindings run in order, so a column may be trimmed before it is padded.
// Bindings naming a column t does not have are ignored. Row order and
// unbound columns are unchanged.
func (n *Normalizer) Apply(t *table.Table, bindings []Binding) (*table.Table, error) {
	if t == nil {
		return nil, nil
	}
	out := t.Clone()
	for _, b := range bindings {
		if !out.HasColumn(b.Column) {
			continue
		}
		changed := 0
		for i, rec := range out.Rows {
			before := rec.Get(b.Column)
			after, err := b.Rule.Apply(before)
			if err != nil {
				return nil, fmt.Errorf("normalize column %s row %d with %s: %w", b.Column, i, b.Rule.Name(), err)
			}
			if !after.Equal(before) {
				changed++
			}
			rec[b.Column] = after
		}
		n.logger.Debug("Column normalized",
			slog.String("column", b.Column),
			slog.String("rule", b.Rule.Name()),
			slog.Int("changed", changed))
	}
	return out, nil
}

// DefaultBindings returns the bindings applied to every loaded source:
// trim on every text column, then the code rules on the identifier
// columns present in t, then text rendering of the remaining key columns.
func DefaultBindings(t *table.Table) []Binding {
	if t == nil {
		return nil
	}
	var bindings []Binding
	for _, col := range t.Columns {
		if holdsText(t, col) {
			bindings = append(bindings, Binding{Column: col, Rule: TrimRule{}})
		}
	}
	if t.HasColumn(domain.ColPlant) {
		bindings = append(bindings, Binding{Column: domain.ColPlant, Rule: PlantCode})
	}
	for _, col := range []string{domain.ColSupplierID, domain.ColManufacturerID} {
		if t.HasColumn(col) {
			bindings = append(bindings, Binding{Column: col, Rule: IdentifierRule{}})
		}
	}
	for _, col := range textKeyColumns {
		if t.HasColumn(col) {
			bindings = append(bindings, Binding{Column: col, Rule: TextRule{}})
		}
	}
	return bindings
}

// textKeyColumns are join and grain keys without a code rule of their own.
var textKeyColumns = []string{domain.ColMaterialReference, domain.ColStorageLocation, domain.ColStorageBin}

func holdsText(t *table.Table, col string) bool {
	for _, rec := range t.Rows {
		if rec.Get(col).Kind() == table.KindString {
			return true
		}
	}
	return false
}
