package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultSheetName = "Calificaciones"

	idColumnWidth         = 15
	nameColumnWidth       = 25
	assignmentColumnWidth = 15
	totalColumnWidth      = 12
)

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	for i := range widths {
		switch {
		case i == 0:
			widths[i] = idColumnWidth
		case i <= 2:
			widths[i] = nameColumnWidth
		case i == columns-1:
			widths[i] = totalColumnWidth
		default:
			widths[i] = assignmentColumnWidth
		}
	}
	return widths
}

// WriteXLSX writes the table as a single-sheet workbook.
func WriteXLSX(w io.Writer, t Table, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheetName, err)
	}

	for i, row := range t.Values() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for i, width := range columnWidths(len(t.Header)) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to address column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
