package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics are the instruments recorded during an aggregation run.
type RunMetrics struct {
	rowsLoaded       metric.Int64Counter
	sourceDuplicates metric.Int64Counter
	joinRows         metric.Int64Gauge
	validationIssues metric.Int64Counter
	outputRows       metric.Int64Gauge
	heapBytes        metric.Int64Gauge
	runDuration      metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on meter.
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	m := &RunMetrics{}
	var err error

	if m.rowsLoaded, err = meter.Int64Counter(
		"matagg_source_rows_loaded_total",
		metric.WithDescription("Rows loaded per source"),
	); err != nil {
		return nil, err
	}
	if m.sourceDuplicates, err = meter.Int64Counter(
		"matagg_source_duplicate_rows_total",
		metric.WithDescription("Rows sharing a source grain key, all copies counted"),
	); err != nil {
		return nil, err
	}
	if m.joinRows, err = meter.Int64Gauge(
		"matagg_join_rows",
		metric.WithDescription("Rows after each join step"),
	); err != nil {
		return nil, err
	}
	if m.validationIssues, err = meter.Int64Counter(
		"matagg_validation_issues_total",
		metric.WithDescription("Final validation issues by code"),
	); err != nil {
		return nil, err
	}
	if m.outputRows, err = meter.Int64Gauge(
		"matagg_output_rows",
		metric.WithDescription("Rows in the written report"),
	); err != nil {
		return nil, err
	}
	if m.heapBytes, err = meter.Int64Gauge(
		"matagg_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated when the run finished"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.runDuration, err = meter.Float64Histogram(
		"matagg_run_duration_seconds",
		metric.WithDescription("Duration of a run"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RunMetrics) RecordSourceLoaded(ctx context.Context, source string, rows int) {
	m.rowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("source", source)))
}

func (m *RunMetrics) RecordSourceDuplicates(ctx context.Context, source string, rows int) {
	m.sourceDuplicates.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("source", source)))
}

func (m *RunMetrics) RecordJoinStep(ctx context.Context, step string, rows int, skipped bool) {
	m.joinRows.Record(ctx, int64(rows), metric.WithAttributes(
		attribute.String("step", step),
		attribute.Bool("skipped", skipped)))
}

func (m *RunMetrics) RecordValidationIssue(ctx context.Context, code string) {
	m.validationIssues.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

func (m *RunMetrics) RecordOutput(ctx context.Context, rows int) {
	m.outputRows.Record(ctx, int64(rows))
}

// RecordRunEnd records the run duration and the heap held at the end, the
// point where every table is still alive.
func (m *RunMetrics) RecordRunEnd(ctx context.Context, elapsed time.Duration, success bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.heapBytes.Record(ctx, int64(ms.HeapAlloc))
	m.runDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}
