package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"matagg/internal/dataset"
	"matagg/internal/errors"
	"matagg/internal/infrastructure"
	"matagg/internal/normalize"
	"matagg/internal/table"
	"matagg/internal/validation"
	"matagg/pkg/contracts/domain"
)

// SourceResult reports the outcome of loading one source.
type SourceResult struct {
	Source   domain.SourceName
	File     string
	Rows     int
	Columns  int
	Duration time.Duration
	Err      error
}

// Summary reports a load of all configured sources.
type Summary struct {
	AllLoaded bool
	Results   []SourceResult
}

// Failed returns the results of sources that could not be loaded.
func (s Summary) Failed() []SourceResult {
	var out []SourceResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Loader reads the configured source files.
type Loader struct {
	files       map[domain.SourceName]string
	concurrency int
	validator   *validation.FileValidator
	normalizer  *normalize.Normalizer
	logger      *slog.Logger
}

// New creates a loader for files, keyed by source. At most concurrency
// files are read at once.
func New(files map[domain.SourceName]string, concurrency int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{
		files:       files,
		concurrency: concurrency,
		validator:   validation.NewFileValidator(logger),
		normalizer:  normalize.NewNormalizer(logger),
		logger:      infrastructure.WithComponent(logger, "loader"),
	}
}

// Load reads and normalizes every configured source. A source that fails
// is absent from the returned Sources and recorded in the summary; the
// remaining sources are still loaded. Results are ordered by source.
func (l *Loader) Load(ctx context.Context) (dataset.Sources, Summary, error) {
	var order []domain.SourceName
	for _, name := range domain.AllSources {
		if _, ok := l.files[name]; ok {
			order = append(order, name)
		}
	}

	results := make([]SourceResult, len(order))
	tables := make([]*table.Table, len(order))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range order {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i], results[i] = l.loadOne(name, l.files[name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, fmt.Errorf("load cancelled: %w", err)
	}

	sources := make(dataset.Sources, len(order))
	summary := Summary{AllLoaded: true, Results: results}
	for i, r := range results {
		if r.Err != nil {
			summary.AllLoaded = false
			l.logger.ErrorContext(ctx, "Failed to load source",
				slog.String("source", string(r.Source)),
				slog.String("file", r.File),
				slog.String("error", r.Err.Error()))
			continue
		}
		sources[r.Source] = tables[i]
		l.logger.InfoContext(ctx, "Loaded source",
			slog.String("source", string(r.Source)),
			slog.String("file", r.File),
			slog.Int("rows", r.Rows),
			slog.Int("columns", r.Columns),
			slog.Duration("duration", r.Duration))
	}
	return sources, summary, nil
}

func (l *Loader) loadOne(name domain.SourceName, path string) (*table.Table, SourceResult) {
	start := time.Now()
	res := SourceResult{Source: name, File: path}

	if err := l.validator.ValidateSourceFile(path); err != nil {
		res.Err = err
		return nil, res
	}
	raw, err := ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return nil, res
	}
	t, err := l.normalizer.Apply(raw, normalize.DefaultBindings(raw))
	if err != nil {
		res.Err = errors.NewNormalizeError("normalizing "+string(name), err)
		return nil, res
	}

	res.Rows = t.Len()
	res.Columns = len(t.Columns)
	res.Duration = time.Since(start)
	return t, res
}
