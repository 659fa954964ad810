package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"matagg/internal/table"
)

// ErrNoHeader is returned for a file without a header row.
var ErrNoHeader = errors.New("file has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a source file into a table, choosing the reader by
// extension.
func ReadFile(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	default:
		return readWorkbook(path)
	}
}

func readWorkbook(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	// Stored values, not display text: a plant formatted as 0.00 must
	// still read as 1.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return buildTable(rows, func(row, col int, raw string) table.Value {
		return workbookCell(f, sheet, row, col, raw)
	})
}

// workbookCell keeps numeric cells numeric. Everything else, including
// numbers stored as text, stays a string.
func workbookCell(f *excelize.File, sheet string, row, col int, raw string) table.Value {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return table.String(raw)
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return table.String(raw)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return table.Number(n)
		}
	}
	return table.String(raw)
}

func readCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return buildTable(rows, textCell)
}

// cellReader turns the raw text of a non-empty data cell into a value. row
// and col are zero based positions in the source rows.
type cellReader func(row, col int, raw string) table.Value

func textCell(_, _ int, raw string) table.Value { return table.String(raw) }

// buildTable turns raw rows into a table. Blank rows are skipped and short
// rows are padded with missing values. Cells past the header width are
// ignored.
func buildTable(rows [][]string, read cellReader) (*table.Table, error) {
	start := -1
	for i, row := range rows {
		if !blank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	columns := headerNames(rows[start])
	t := table.New(columns...)
	for r := start + 1; r < len(rows); r++ {
		row := rows[r]
		if blank(row) {
			continue
		}
		rec := make(table.Record, len(columns))
		for i, col := range columns {
			if i < len(row) && row[i] != "" {
				rec[col] = read(r, i, row[i])
			} else {
				rec[col] = table.Missing()
			}
		}
		t.Append(rec)
	}
	return t, nil
}

// headerNames trims header cells, names empty ones by position and
// suffixes repeated names with the first unused occurrence counter.
func headerNames(row []string) []string {
	used := make(map[string]bool, len(row))
	next := make(map[string]int, len(row))
	names := make([]string, len(row))
	for i, cell := range row {
		base := strings.TrimSpace(cell)
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for used[name] {
			next[base]++
			name = base + "." + strconv.Itoa(next[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
