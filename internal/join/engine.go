package join

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"matagg/internal/dataset"
	"matagg/internal/selector"
	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

// ErrMissingBase is returned when the storage table, which every other
// source enriches, is not available.
var ErrMissingBase = errors.New("storage data is required but not found")

// StepResult records what one enrichment step did.
type StepResult struct {
	Name       string
	Source     domain.SourceName
	On         table.Key
	Skipped    bool
	SkipReason string
	Stats      Stats
}

// step is one enrichment in the fixed pipeline. prepare, when set, turns
// the raw source into the table that is joined.
type step struct {
	name    string
	source  domain.SourceName
	on      table.Key
	prepare func(*table.Table) (*table.Table, error)
}

// steps returns the enrichment order applied to the storage base table.
func steps() []step {
	return []step{
		{name: "materials", source: domain.SourceMaterials, on: table.Key{domain.ColMaterialReference}},
		{name: "manufacturer_names", source: domain.SourceManufacturerNames, on: table.Key{domain.ColManufacturerID}},
		{name: "plants", source: domain.SourcePlants, on: table.Key{domain.ColMaterialReference, domain.ColPlant}},
		{name: "primary_supplier", source: domain.SourceSuppliers, on: table.Key{domain.ColMaterialReference}, prepare: primarySuppliers},
		{name: "supplier_names", source: domain.SourceSupplierNames, on: table.Key{domain.ColSupplierID}},
	}
}

func primarySuppliers(t *table.Table) (*table.Table, error) {
	if !t.HasColumns(domain.ColMaterialReference, domain.ColSupplierID) {
		return nil, fmt.Errorf("suppliers table needs %s and %s", domain.ColMaterialReference, domain.ColSupplierID)
	}
	return selector.Select(t, domain.ColMaterialReference, domain.ColSupplierID)
}

// Engine runs the enrichment joins.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a join engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "join"))}
}

// Run starts from the storage table and left joins each available
// enrichment source in order. A step is skipped when its source is absent,
// when its prepared table is empty, or when the accumulated result lacks
// the join key (for example supplier names without a primary supplier).
func (e *Engine) Run(ctx context.Context, sources dataset.Sources) (*table.Table, []StepResult, error) {
	base, ok := sources.Get(domain.SourceStorage)
	if !ok {
		return nil, nil, ErrMissingBase
	}

	result := base.Clone()
	e.logger.InfoContext(ctx, "Base table loaded",
		slog.String("source", string(domain.SourceStorage)),
		slog.Int("rows", result.Len()))

	var results []StepResult
	for _, s := range steps() {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}

		res := StepResult{Name: s.name, Source: s.source, On: s.on}
		right, ok := sources.Get(s.source)
		if !ok {
			res.Skipped, res.SkipReason = true, "source not available"
			e.logger.WarnContext(ctx, "Join step skipped",
				slog.String("step", s.name),
				slog.String("reason", res.SkipReason))
			results = append(results, res)
			continue
		}

		if s.prepare != nil {
			prepared, err := s.prepare(right)
			if err != nil {
				return nil, results, fmt.Errorf("prepare %s: %w", s.name, err)
			}
			e.logger.InfoContext(ctx, "Prepared join input",
				slog.String("step", s.name),
				slog.Int("records", right.Len()),
				slog.Int("selected", prepared.Len()))
			right = prepared
		}

		if right.Empty() {
			res.Skipped, res.SkipReason = true, "source is empty"
			e.logger.WarnContext(ctx, "Join step skipped",
				slog.String("step", s.name),
				slog.String("reason", res.SkipReason))
			results = append(results, res)
			continue
		}

		if !result.HasColumns(s.on...) {
			res.Skipped, res.SkipReason = true, "join key not present in result"
			e.logger.WarnContext(ctx, "Join step skipped",
				slog.String("step", s.name),
				slog.String("key", s.on.String()),
				slog.String("reason", res.SkipReason))
			results = append(results, res)
			continue
		}

		joined, stats, err := LeftJoin(result, right, s.on)
		if err != nil {
			return nil, results, fmt.Errorf("join %s on %s: %w", s.name, s.on, err)
		}
		res.Stats = stats
		results = append(results, res)

		e.logger.InfoContext(ctx, "Join step complete",
			slog.String("step", s.name),
			slog.String("key", s.on.String()),
			slog.Int("rows_before", stats.LeftRows),
			slog.Int("rows_after", stats.OutputRows),
			slog.Int("matched", stats.Matched))
		if len(stats.Collisions) > 0 {
			e.logger.WarnContext(ctx, "Join overwrote colliding columns",
				slog.String("step", s.name),
				slog.Any("columns", stats.Collisions))
		}
		if stats.OutputRows != stats.LeftRows {
			e.logger.WarnContext(ctx, "Join changed row count",
				slog.String("step", s.name),
				slog.Int("rows_before", stats.LeftRows),
				slog.Int("rows_after", stats.OutputRows),
				slog.Int("fan_out", stats.FanOut))
		}
		result = joined
	}

	e.logger.InfoContext(ctx, "Aggregation complete",
		slog.Int("rows", result.Len()),
		slog.Int("columns", len(result.Columns)))
	return result, results, nil
}
