package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"matagg/internal/config"
	"matagg/pkg/contracts"
)

// InstrumentationName names the tracer and meter of the aggregator.
const InstrumentationName = "matagg"

// Telemetry holds the tracing and metrics providers of one run. Metrics
// are collected into a private Prometheus registry so a run can dump them
// to a textfile without serving HTTP.
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Registry *promclient.Registry

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	traceFile      io.Closer
	logger         *slog.Logger
}

// NewTelemetry initializes tracing according to cfg and always sets up
// the metrics pipeline.
func NewTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", GenerateTraceID()),
	)

	t := &Telemetry{logger: logger}
	if err := t.initTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initMetrics(res); err != nil {
		_ = t.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return t, nil
}

func (t *Telemetry) initTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "file":
		f, ferr := os.Create(cfg.TraceFile)
		if ferr != nil {
			return fmt.Errorf("failed to create trace file: %w", ferr)
		}
		t.traceFile = f
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(f))
	case "none", "":
		t.Tracer = noop.NewTracerProvider().Tracer(InstrumentationName)
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// A batch run ends right after its last span, so spans are exported
	// synchronously.
	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	t.Tracer = t.tracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(contracts.Version))
	return nil
}

func (t *Telemetry) initMetrics(res *resource.Resource) error {
	t.Registry = promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.meterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(contracts.Version))
	return nil
}

// WriteMetrics writes the collected metrics in the Prometheus text format.
// An empty path is a no-op.
func (t *Telemetry) WriteMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := promclient.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	t.logger.Info("Metrics written", slog.String("file", path))
	return nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	if t.traceFile != nil {
		errs = append(errs, t.traceFile.Close())
		t.traceFile = nil
	}
	return errors.Join(errs...)
}
