package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX serializes the table to w as a single-sheet workbook named after
// the symbol. Numeric cells stay numeric so spreadsheet formulas work on the
// result; absent indicator values stay blank.
func WriteXLSX(w io.Writer, symbol string, table *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	sheet := symbol
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for col, h := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
	}

	for r, row := range table.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell %d,%d: %w", r, c, err)
			}
			if v == "" {
				continue
			}
			// First column is the timestamp, keep it as text.
			if c == 0 {
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
				continue
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				if err := f.SetCellValue(sheet, cell, n); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
			} else if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
