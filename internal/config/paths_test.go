package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matagg/pkg/contracts/domain"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg, err := LoadFile("")
	require.NoError(t, err)
	cfg.Paths.BaseDir = base

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	p, err := cfg.ResolvePaths(now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), p.InputDir)
	assert.Equal(t, filepath.Join(base, "output"), p.OutputDir)
	assert.Equal(t, filepath.Join(base, "output", "result.xlsx"), p.OutputFile)
	assert.Equal(t, filepath.Join(base, "logs", "aggregation_20260304_050607.log"), p.LogFile)

	sources := p.SourcePaths(cfg)
	assert.Equal(t, filepath.Join(base, "data", "storage.xlsx"), sources[domain.SourceStorage])
	assert.Equal(t, filepath.Join(base, "data", "supplier-names.xlsx"), sources[domain.SourceSupplierNames])
}

func TestResolvePaths_AbsoluteAndExplicitLog(t *testing.T) {
	abs := t.TempDir()
	cfg := &Config{
		Paths:   PathsConfig{BaseDir: t.TempDir(), InputDir: abs, OutputDir: "out", LogsDir: "logs"},
		Output:  OutputConfig{Filename: "r.csv"},
		Logging: LoggingConfig{FilePath: "custom/run.log"},
	}
	p, err := cfg.ResolvePaths(time.Now())
	require.NoError(t, err)
	assert.Equal(t, abs, p.InputDir)
	assert.Equal(t, filepath.Join(cfg.Paths.BaseDir, "custom", "run.log"), p.LogFile)
	assert.Equal(t, filepath.Join(abs, "x.csv"), p.SourcePath("x.csv"))
	assert.Equal(t, "/elsewhere/x.csv", p.SourcePath("/elsewhere/x.csv"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := &Paths{OutputDir: filepath.Join(base, "a", "out"), LogsDir: filepath.Join(base, "b", "logs")}
	require.NoError(t, p.EnsureDirectories())
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
