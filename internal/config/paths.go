package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"matagg/pkg/contracts/domain"
)

// Paths contains the resolved, absolute paths of a run.
// This is the single source of truth for file locations.
type Paths struct {
	BaseDir    string
	InputDir   string
	OutputDir  string
	LogsDir    string
	OutputFile string
	LogFile    string
}

// ResolvePaths turns the configured folders into absolute paths. now is
// used to stamp the default log file name.
func (c *Config) ResolvePaths(now time.Time) (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	p := &Paths{
		BaseDir:   base,
		InputDir:  resolve(base, c.Paths.InputDir),
		OutputDir: resolve(base, c.Paths.OutputDir),
		LogsDir:   resolve(base, c.Paths.LogsDir),
	}
	p.OutputFile = filepath.Join(p.OutputDir, c.Output.Filename)

	if c.Logging.FilePath != "" {
		p.LogFile = resolve(base, c.Logging.FilePath)
	} else {
		p.LogFile = filepath.Join(p.LogsDir, fmt.Sprintf("aggregation_%s.log", now.Format("20060102_150405")))
	}
	return p, nil
}

// SourcePath returns the absolute path of a source file.
func (p *Paths) SourcePath(file string) string {
	return resolve(p.InputDir, file)
}

// SourcePaths resolves every configured source file.
func (p *Paths) SourcePaths(cfg *Config) map[domain.SourceName]string {
	out := make(map[domain.SourceName]string, len(cfg.Sources.Files))
	for _, sf := range cfg.SourceFiles() {
		out[sf.Source] = p.SourcePath(sf.File)
	}
	return out
}

// EnsureDirectories creates the output and logs folders.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("output_file", p.OutputFile),
		slog.String("log_file", p.LogFile))
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
