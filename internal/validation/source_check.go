package validation

import (
	"context"
	"log/slog"

	"matagg/internal/dataset"
	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

// maxLoggedTuples caps how many offending keys are written per source.
const maxLoggedTuples = 10

// DuplicateFinding reports rows of one source that repeat its grain.
type DuplicateFinding struct {
	Source domain.SourceName
	Key    table.Key
	// Rows counts every copy of a duplicated key, not only the repeats.
	Rows int
	// Groups lists the offending key tuples with their row indices.
	Groups []DuplicateGroup
	// MissingColumns is set when the source lacks grain columns; no
	// duplicate check was possible.
	MissingColumns []string
}

// GrainValidator checks declared grains. It holds no state besides its
// logger; every check is a function of its input.
type GrainValidator struct {
	logger *slog.Logger
}

// NewGrainValidator creates a validator that reports through logger.
func NewGrainValidator(logger *slog.Logger) *GrainValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrainValidator{logger: logger.With(slog.String("component", "validation"))}
}

// CheckSources looks for duplicate grain tuples in each available source
// with a declared grain. Findings are advisory: they are logged and
// returned, never turned into an error.
func (v *GrainValidator) CheckSources(ctx context.Context, sources dataset.Sources, grains map[domain.SourceName][]string) []DuplicateFinding {
	var findings []DuplicateFinding
	for _, name := range domain.AllSources {
		cols, declared := grains[name]
		if !declared {
			continue
		}
		t, ok := sources.Get(name)
		if !ok {
			continue
		}
		key := table.Key(cols)

		var absent []string
		for _, col := range key {
			if !t.HasColumn(col) {
				absent = append(absent, col)
			}
		}
		if len(absent) > 0 {
			v.logger.WarnContext(ctx, "Source lacks grain columns",
				slog.String("source", string(name)),
				slog.String("key", formatKey(key)),
				slog.Any("missing_columns", absent))
			findings = append(findings, DuplicateFinding{Source: name, Key: key, MissingColumns: absent})
			continue
		}

		groups := FindDuplicates(t, key)
		if len(groups) == 0 {
			v.logger.InfoContext(ctx, "No duplicates on source grain",
				slog.String("source", string(name)),
				slog.String("key", formatKey(key)))
			continue
		}

		f := DuplicateFinding{Source: name, Key: key, Rows: DuplicateRowCount(groups), Groups: groups}
		v.logger.WarnContext(ctx, "Duplicate rows detected on source grain",
			slog.String("source", string(name)),
			slog.String("key", formatKey(key)),
			slog.Int("duplicate_rows", f.Rows),
			slog.Int("distinct_keys", len(groups)),
			slog.Any("sample_keys", sampleTuples(groups, maxLoggedTuples)))
		findings = append(findings, f)
	}
	return findings
}
