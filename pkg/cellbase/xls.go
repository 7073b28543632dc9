package cellbase

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// importXLS reads a legacy .xls workbook into a fresh in-memory workbook.
// Only cell values survive the import; saving writes xlsx.
func importXLS(path string) (*excelize.File, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	file := excelize.NewFile()
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetList()[0], sheet.Name); err != nil {
				return nil, fmt.Errorf("import sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := file.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("import sheet %s: %w", sheet.Name, err)
		}

		for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
			row := sheet.Row(rowIdx)
			if row == nil {
				continue
			}
			for colIdx := row.FirstCol(); colIdx <= row.LastCol(); colIdx++ {
				value := row.Col(colIdx)
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return nil, err
				}
				if err := file.SetCellValue(sheet.Name, cell, value); err != nil {
					return nil, fmt.Errorf("import sheet %s: %w", sheet.Name, err)
				}
			}
		}
	}
	return file, nil
}
