package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"matagg/internal/config"
	"matagg/internal/table"
)

// TableWriter encodes a table onto a stream.
type TableWriter interface {
	WriteTable(w io.Writer, t *table.Table) error
}

// Writer writes the aggregated table to the configured output file.
type Writer struct {
	path   string
	format string
	enc    TableWriter
	logger *slog.Logger
}

// NewWriter creates a writer for cfg.Format targeting path.
func NewWriter(cfg config.OutputConfig, path string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))

	var enc TableWriter
	switch cfg.Format {
	case "csv":
		enc = NewCSVWriter(logger)
	case "xlsx", "":
		enc = NewXLSXWriter(cfg.SheetName, logger)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
	return &Writer{path: path, format: cfg.Format, enc: enc, logger: logger}, nil
}

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// Write encodes t into a temporary file next to the target and renames it
// into place, so a failed write never leaves a partial report.
func (w *Writer) Write(ctx context.Context, t *table.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t == nil {
		return "", fmt.Errorf("nothing to write")
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".matagg-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := w.enc.WriteTable(tmp, t); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return "", fmt.Errorf("failed to move output into place: %w", err)
	}

	w.logger.InfoContext(ctx, "Output written",
		slog.String("file", w.path),
		slog.String("format", w.format),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns)))
	return w.path, nil
}
