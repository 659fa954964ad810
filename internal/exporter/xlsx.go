package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"matagg/internal/table"
)

// DefaultSheetName is the sheet the aggregated table is written to.
const DefaultSheetName = "Aggregated Data"

// XLSXWriter writes tables as single-sheet workbooks.
type XLSXWriter struct {
	sheetName string
	logger    *slog.Logger
}

// NewXLSXWriter creates a workbook writer. An empty sheet name uses
// DefaultSheetName.
func NewXLSXWriter(sheetName string, logger *slog.Logger) *XLSXWriter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{sheetName: sheetName, logger: logger}
}

// WriteTable writes t to w as a workbook with a header row.
func (x *XLSXWriter) WriteTable(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), x.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: false},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "bottom",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(x.sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, rec := range t.Rows {
		row := make([]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = cellValue(rec.Get(col))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	x.logger.Debug("Writing workbook",
		slog.String("sheet", x.sheetName),
		slog.Int("record_count", t.Len()))
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
