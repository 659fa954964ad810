package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matagg/internal/config"
)

func testTelemetryConfig() config.TelemetryConfig {
	return config.TelemetryConfig{
		ServiceName:   "material-aggregator",
		Environment:   "test",
		TraceExporter: "none",
		SampleRatio:   1,
	}
}

func TestNewTelemetry_TraceExporters(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  bool
	}{
		{name: "none", exporter: "none"},
		{name: "empty defaults to none", exporter: ""},
		{name: "stdout", exporter: "stdout"},
		{name: "file", exporter: "file"},
		{name: "unknown", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTelemetryConfig()
			cfg.TraceExporter = tt.exporter
			cfg.TraceFile = filepath.Join(t.TempDir(), "trace.json")

			tel, err := NewTelemetry(context.Background(), cfg, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported trace exporter")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tel.Tracer)
			require.NotNil(t, tel.Meter)
			require.NotNil(t, tel.Registry)

			_, span := tel.Tracer.Start(context.Background(), "test-span")
			span.End()
			require.NoError(t, tel.Shutdown(context.Background()))
		})
	}
}

func TestNewTelemetry_TraceFileReceivesSpans(t *testing.T) {
	cfg := testTelemetryConfig()
	cfg.TraceExporter = "file"
	cfg.TraceFile = filepath.Join(t.TempDir(), "trace.json")

	tel, err := NewTelemetry(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "aggregation.load")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	data, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aggregation.load")
}

func TestRunMetrics_WrittenToTextfile(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), testTelemetryConfig(), nil)
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	m, err := NewRunMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSourceLoaded(ctx, "materials", 3)
	m.RecordSourceDuplicates(ctx, "suppliers", 2)
	m.RecordJoinStep(ctx, "plants", 3, false)
	m.RecordValidationIssue(ctx, "duplicate_grain")
	m.RecordOutput(ctx, 3)
	m.RecordRunEnd(ctx, 1500*time.Millisecond, true)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, tel.WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "matagg_source_rows_loaded_total")
	assert.Contains(t, text, `source="materials"`)
	assert.Contains(t, text, "matagg_join_rows")
	assert.Contains(t, text, "matagg_validation_issues_total")
	assert.Contains(t, text, "matagg_run_duration_seconds")
	assert.Contains(t, text, "matagg_heap_alloc_bytes")
}

func TestWriteMetrics_EmptyPathIsNoop(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), testTelemetryConfig(), nil)
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	assert.NoError(t, tel.WriteMetrics(""))
}
