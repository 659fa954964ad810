package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"matagg/internal/config"
	"matagg/internal/exporter"
	"matagg/internal/shared/testutil"
)

func setupRun(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("MATAGG_CONFIG", "")
	t.Setenv("MATAGG_PATHS_BASE_DIR", base)
	t.Setenv("MATAGG_LOGGING_OUTPUT", "file")
	t.Setenv("MATAGG_SOURCES_FILES", "storage:storage.csv,suppliers:suppliers.csv")

	in := filepath.Join(base, "data")
	testutil.WriteFile(t, filepath.Join(in, "storage.csv"), "MaterialReference,Plant,StorageLocation,StorageBin\nM1,1,L1,B1\nM2,2,L1,B1\n")
	testutil.WriteFile(t, filepath.Join(in, "suppliers.csv"), "MaterialReference,SupplierID,SupplierArticleNumber\nM1,7,SA-7\n")
	return base
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Material Data Aggregator")
}

func TestRun_WritesWorkbook(t *testing.T) {
	base := setupRun(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := filepath.Join(base, "output", "result.xlsx")
	assert.Contains(t, stdout.String(), out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporter.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "MaterialReference", rows[0][0])
}

func TestRun_FormatFlag(t *testing.T) {
	base := setupRun(t)
	outDir := filepath.Join(base, "reports")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "csv", "-out", outDir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(outDir, "result.csv"))
}

func TestRun_FailsOnDuplicateGrain(t *testing.T) {
	base := setupRun(t)
	testutil.WriteFile(t, filepath.Join(base, "data", "storage.csv"), "MaterialReference,Plant,StorageLocation,StorageBin\nM1,1,L1,B1\nM1,1.0,L1,B1\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[VALIDATION]")
	assert.NoFileExists(t, filepath.Join(base, "output", "result.xlsx"))
}

func TestRun_MissingSuppliersFile(t *testing.T) {
	base := setupRun(t)
	require.NoError(t, os.Remove(filepath.Join(base, "data", "suppliers.csv")))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "csv"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(base, "output", "result.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "M1,,,,,0001,,,,,L1,B1,\n", "supplier columns left empty")
}

func TestRun_FailsOnMissingSource(t *testing.T) {
	tests := []struct {
		name   string
		remove string
		strict bool
	}{
		{name: "storage is required", remove: "storage.csv"},
		{name: "strict load", remove: "suppliers.csv", strict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := setupRun(t)
			if tt.strict {
				t.Setenv("MATAGG_SOURCES_STRICT", "true")
			}
			require.NoError(t, os.Remove(filepath.Join(base, "data", tt.remove)))

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), nil, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), "[LOAD]")
			assert.NoFileExists(t, filepath.Join(base, "output", "result.xlsx"))
		})
	}
}

func TestRun_InvalidFormat(t *testing.T) {
	setupRun(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "pdf"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[CONFIG]")
}

func TestApplyFlags(t *testing.T) {
	t.Setenv("MATAGG_CONFIG", "")
	cfg, err := config.LoadFile("")
	require.NoError(t, err)

	require.NoError(t, applyFlags(cfg, "in", "out", "CSV"))
	assert.Equal(t, "in", cfg.Paths.InputDir)
	assert.Equal(t, "out", cfg.Paths.OutputDir)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "result.csv", cfg.Output.Filename)
}
