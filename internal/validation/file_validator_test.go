package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid directory with files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "storage.xlsx"), []byte("test"), 0644))
				return dir
			},
		},
		{
			name: "valid directory without files",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/path"
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "test.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			err := validator.ValidateInputDirectory(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	existing := t.TempDir()
	require.NoError(t, validator.ValidateOutputDirectory(existing))

	nested := filepath.Join(t.TempDir(), "new", "nested", "dir")
	require.NoError(t, validator.ValidateOutputDirectory(nested))
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(nested, ".write_test"))
	assert.True(t, os.IsNotExist(err), "write check file must be removed")
}

func TestFileValidator_ValidateSourceFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		return p
	}

	tests := []struct {
		name          string
		path          string
		wantErr       bool
		errorContains string
	}{
		{name: "workbook", path: write("materials.xlsx")},
		{name: "csv", path: write("plants.csv")},
		{name: "upper case extension", path: write("STORAGE.XLSX")},
		{name: "missing", path: filepath.Join(dir, "nope.xlsx"), wantErr: true, errorContains: "does not exist"},
		{name: "lock file", path: write("~$materials.xlsx"), wantErr: true, errorContains: "temporary"},
		{name: "wrong extension", path: write("notes.txt"), wantErr: true, errorContains: "unsupported"},
		{name: "directory", path: dir, wantErr: true, errorContains: "is a directory"},
	}

	validator := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSourceFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, validator.ValidateSourceFile(filepath.Join(dir, "gone.csv")), os.ErrNotExist)
}

func TestFileValidator_CountSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.csv", "c.txt", "~$a.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0755))

	count, err := NewFileValidator(nil).CountSourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = NewFileValidator(nil).CountSourceFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
