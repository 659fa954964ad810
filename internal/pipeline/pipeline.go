package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"matagg/internal/dataset"
	"matagg/internal/errors"
	"matagg/internal/infrastructure"
	"matagg/internal/join"
	"matagg/internal/loader"
	"matagg/internal/projector"
	"matagg/internal/table"
	"matagg/internal/validation"
	"matagg/pkg/contracts/domain"
)

// SourceLoader loads the configured sources.
type SourceLoader interface {
	Load(ctx context.Context) (dataset.Sources, loader.Summary, error)
}

// ResultWriter persists the validated result and returns where it went.
type ResultWriter interface {
	Write(ctx context.Context, t *table.Table) (string, error)
}

// Summary describes a finished run, successful or not.
type Summary struct {
	TraceID    string
	Load       loader.Summary
	Findings   []validation.DuplicateFinding
	Steps      []join.StepResult
	Validation validation.Result
	Rows       int
	OutputFile string
	Duration   time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger every stage reports through.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithTracer sets the tracer used for phase spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics records run metrics.
func WithMetrics(m *infrastructure.RunMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithStrictLoad makes any source that fails to load abort the run. By
// default only required sources and normalization failures do.
func WithStrictLoad(strict bool) Option {
	return func(p *Pipeline) { p.strict = strict }
}

// Pipeline wires the aggregation stages together.
type Pipeline struct {
	strict    bool
	loader    SourceLoader
	writer    ResultWriter
	engine    *join.Engine
	validator *validation.GrainValidator
	tracer    trace.Tracer
	metrics   *infrastructure.RunMetrics
	logger    *slog.Logger
	log       *slog.Logger
}

// New creates a pipeline reading through l and writing through w.
func New(l SourceLoader, w ResultWriter, opts ...Option) *Pipeline {
	p := &Pipeline{loader: l, writer: w}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.tracer == nil {
		p.tracer = noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName)
	}
	p.log = infrastructure.WithComponent(p.logger, "pipeline")
	p.engine = join.NewEngine(p.logger)
	p.validator = validation.NewGrainValidator(p.logger)
	return p
}

// Run executes one aggregation. The summary is returned even on failure
// and holds whatever the completed stages produced.
func (p *Pipeline) Run(ctx context.Context) (summary *Summary, err error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	summary = &Summary{TraceID: infrastructure.GetTraceID(ctx)}

	ctx, span := p.tracer.Start(ctx, "aggregation.run",
		trace.WithAttributes(attribute.String("trace_id", summary.TraceID)))
	p.log.InfoContext(ctx, "Aggregation started")

	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "Aggregation panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = errors.NewAggregationError(fmt.Sprintf("unexpected failure: %v", r), nil)
		}

		summary.Duration = time.Since(start)
		if p.metrics != nil {
			p.metrics.RecordRunEnd(ctx, summary.Duration, err == nil)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.log.ErrorContext(ctx, "Aggregation failed",
				slog.Any("error", err),
				slog.Duration("duration", summary.Duration))
		} else {
			span.SetStatus(codes.Ok, "")
			p.log.InfoContext(ctx, "Aggregation completed",
				slog.String("output_file", summary.OutputFile),
				slog.Int("rows", summary.Rows),
				slog.Duration("duration", summary.Duration))
		}
		span.End()
	}()

	sources, err := p.load(ctx, summary)
	if err != nil {
		return summary, err
	}

	p.checkSources(ctx, sources, summary)

	result, err := p.aggregate(ctx, sources, summary)
	if err != nil {
		return summary, err
	}

	if err := p.validate(ctx, result, summary); err != nil {
		return summary, err
	}

	return summary, p.write(ctx, result, summary)
}

func (p *Pipeline) load(ctx context.Context, summary *Summary) (dataset.Sources, error) {
	ctx, span := p.tracer.Start(ctx, "aggregation.load")
	defer span.End()

	sources, loaded, err := p.loader.Load(ctx)
	summary.Load = loaded
	if err != nil {
		return nil, errors.NewLoadError("loading sources", err)
	}
	if p.metrics != nil {
		for _, r := range loaded.Results {
			if r.Err == nil {
				p.metrics.RecordSourceLoaded(ctx, string(r.Source), r.Rows)
			}
		}
	}
	if !loaded.AllLoaded {
		if err := p.checkFailed(ctx, loaded.Failed()); err != nil {
			return nil, err
		}
	}
	span.SetAttributes(attribute.Int("sources", len(sources)))
	return sources, nil
}

// checkFailed decides whether the failed sources end the run. Optional
// sources that could not be read are logged and left out of the joins.
func (p *Pipeline) checkFailed(ctx context.Context, failed []loader.SourceResult) error {
	names := make([]string, len(failed))
	causes := make([]error, len(failed))
	errType := errors.ErrTypeLoad
	fatal := p.strict
	for i, r := range failed {
		names[i] = string(r.Source)
		causes[i] = r.Err
		if errors.IsType(r.Err, errors.ErrTypeNormalize) {
			errType = errors.ErrTypeNormalize
			fatal = true
		}
		if r.Source.Required() {
			fatal = true
		}
	}
	if fatal {
		return errors.NewAppError(errType, "Failed to load sources: "+strings.Join(names, ", "), stderrors.Join(causes...)).
			WithContext("failed_sources", names)
	}
	for _, r := range failed {
		p.log.WarnContext(ctx, "Optional source unavailable, continuing without it",
			slog.String("source", string(r.Source)),
			slog.String("file", r.File),
			slog.String("error", r.Err.Error()))
	}
	return nil
}

func (p *Pipeline) checkSources(ctx context.Context, sources dataset.Sources, summary *Summary) {
	ctx, span := p.tracer.Start(ctx, "aggregation.check_sources")
	defer span.End()

	summary.Findings = p.validator.CheckSources(ctx, sources, domain.SourceGrains)
	if p.metrics != nil {
		for _, f := range summary.Findings {
			p.metrics.RecordSourceDuplicates(ctx, string(f.Source), f.Rows)
		}
	}
}

func (p *Pipeline) aggregate(ctx context.Context, sources dataset.Sources, summary *Summary) (*table.Table, error) {
	ctx, span := p.tracer.Start(ctx, "aggregation.join")
	defer span.End()

	joined, steps, err := p.engine.Run(ctx, sources)
	summary.Steps = steps
	if err != nil {
		if stderrors.Is(err, join.ErrMissingBase) {
			return nil, errors.NewLoadError("Storage data is required but not found", err)
		}
		return nil, errors.NewAggregationError("joining sources", err)
	}
	if p.metrics != nil {
		for _, s := range steps {
			p.metrics.RecordJoinStep(ctx, s.Name, s.Stats.OutputRows, s.Skipped)
		}
	}

	if absent := projector.Absent(joined, domain.OutputColumns); len(absent) > 0 {
		p.log.WarnContext(ctx, "Output columns not produced by any source",
			slog.Any("columns", absent))
	}
	result := projector.Project(joined, domain.OutputColumns)
	span.SetAttributes(attribute.Int("rows", result.Len()))
	return result, nil
}

func (p *Pipeline) validate(ctx context.Context, result *table.Table, summary *Summary) error {
	ctx, span := p.tracer.Start(ctx, "aggregation.validate")
	defer span.End()

	res := p.validator.CheckFinal(ctx, result, domain.OutputColumns, domain.FinalGrain)
	summary.Validation = res
	if res.Passed() {
		return nil
	}
	if p.metrics != nil {
		for _, issue := range res.Issues {
			p.metrics.RecordValidationIssue(ctx, string(issue.Code))
		}
	}
	return errors.NewValidationError("Final validation failed", res.Messages())
}

func (p *Pipeline) write(ctx context.Context, result *table.Table, summary *Summary) error {
	ctx, span := p.tracer.Start(ctx, "aggregation.write")
	defer span.End()

	path, err := p.writer.Write(ctx, result)
	if err != nil {
		return errors.NewWriteError("writing result", err)
	}
	summary.OutputFile = path
	summary.Rows = result.Len()
	if p.metrics != nil {
		p.metrics.RecordOutput(ctx, result.Len())
	}
	span.SetAttributes(attribute.String("output_file", path))
	return nil
}
