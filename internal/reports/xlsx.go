package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName       = "Records"
)

// RenderXLSX writes the table as a single-sheet workbook: title, summary
// block, a blank row, then the header row and one row per record.
func RenderXLSX(t Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	row := 2
	for _, line := range t.Summary {
		if err := setRow(f, row, line); err != nil {
			return nil, err
		}
		row++
	}
	row++

	headerRow := row
	for col, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}
	if len(t.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), headerRow)
		if err := f.SetCellStyle(sheetName, first, last, headerStyle); err != nil {
			return nil, err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
			return nil, err
		}
	}

	for i, values := range t.Rows {
		if err := setRow(f, headerRow+1+i, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &values)
}
