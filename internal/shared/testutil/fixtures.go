package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"matagg/internal/dataset"
	"matagg/internal/table"
	"matagg/pkg/contracts/domain"
)

// WriteWorkbook writes rows to the first sheet of a new workbook at path.
// The first row is the header.
func WriteWorkbook(t *testing.T, path string, rows ...[]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, f.SaveAs(path))
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// StorageTable builds a storage source from rows of
// MaterialReference, Plant, StorageLocation, StorageBin, DeletedStorageLevel.
func StorageTable(rows ...[]string) *table.Table {
	return table.FromRows([]string{
		domain.ColMaterialReference, domain.ColPlant, domain.ColStorageLocation,
		domain.ColStorageBin, domain.ColDeletedStorageLevel,
	}, rows...)
}

// MaterialSources returns one fully populated set of sources: material M1
// stored in two bins of plant 0001 with two suppliers, 20 and 100.
// Supplier 20 is the primary one.
func MaterialSources() dataset.Sources {
	return dataset.Sources{
		domain.SourceStorage: StorageTable(
			[]string{"M1", "0001", "L1", "B1", ""},
			[]string{"M1", "0001", "L1", "B2", ""},
		),
		domain.SourceMaterials: table.FromRows(
			[]string{domain.ColMaterialReference, domain.ColManufacturerID, domain.ColArticleNumber, domain.ColTypeCode, domain.ColShortText},
			[]string{"M1", "MF1", "ART-1", "T1", "Bolt"},
		),
		domain.SourceManufacturerNames: table.FromRows(
			[]string{domain.ColManufacturerID, domain.ColManufacturerName},
			[]string{"MF1", "Maker"},
		),
		domain.SourcePlants: table.FromRows(
			[]string{domain.ColMaterialReference, domain.ColPlant, domain.ColDisposition, domain.ColReporderPoint},
			[]string{"M1", "0001", "PD", "5"},
		),
		domain.SourceSuppliers: table.FromRows(
			[]string{domain.ColMaterialReference, domain.ColSupplierID, domain.ColSupplierArticleNumber},
			[]string{"M1", "100", "SA-100"},
			[]string{"M1", "20", "SA-20"},
		),
		domain.SourceSupplierNames: table.FromRows(
			[]string{domain.ColSupplierID, domain.ColSupplierName},
			[]string{"20", "Twenty Ltd"},
			[]string{"100", "Hundred Ltd"},
		),
	}
}
