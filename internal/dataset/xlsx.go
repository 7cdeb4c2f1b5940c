package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes ds to a single-sheet Excel workbook. Numbers stay numeric
// cells; dates are written as text in the CSV date format.
func WriteXLSX(ds *Dataset, path, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	header := make([]any, len(ds.columns))
	for i, c := range ds.columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for r, row := range ds.rows {
		values := make([]any, len(row))
		for c, v := range row {
			if IsNull(v) {
				continue
			}
			switch x := v.(type) {
			case float64, string, nil:
				values[c] = x
			default:
				values[c] = FormatCell(x)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", r, err)
		}
	}

	return f.SaveAs(path)
}
