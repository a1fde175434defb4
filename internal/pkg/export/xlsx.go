package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes wb as an Office Open XML workbook.
func WriteXLSX(w io.Writer, wb Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	row := 1
	width := 0
	for ti, table := range sheet.Tables {
		if ti > 0 {
			row++
		}
		if table.Title != "" {
			if err := setRow(f, sheet.Name, row, []string{table.Title}, headerStyle); err != nil {
				return err
			}
			row++
		}
		if len(table.Header) > 0 {
			if err := setRow(f, sheet.Name, row, table.Header, headerStyle); err != nil {
				return err
			}
			row++
			width = max(width, len(table.Header))
		}
		for _, r := range table.Rows {
			if err := setRow(f, sheet.Name, row, r, 0); err != nil {
				return err
			}
			row++
			width = max(width, len(r))
		}
	}
	if width > 0 {
		last, err := excelize.ColumnNumberToName(width)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, 22); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %q: %w", row, sheet, err)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, end, style)
}
