// Package dataset groups the loaded source tables of one run.
package dataset

import (
	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

// Sources holds the loaded, normalized input tables by source name. An
// absent entry means the source was not available.
type Sources map[domain.SourceName]*table.Table

// Get returns the table for name and whether it is available.
func (s Sources) Get(name domain.SourceName) (*table.Table, bool) {
	t, ok := s[name]
	return t, ok && t != nil
}

// Names returns the available sources in load order.
func (s Sources) Names() []domain.SourceName {
	var out []domain.SourceName
	for _, name := range domain.AllSources {
		if _, ok := s.Get(name); ok {
			out = append(out, name)
		}
	}
	return out
}
