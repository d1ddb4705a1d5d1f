package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetEncoder turns a cell grid into spreadsheet bytes. The engine
// treats the binary format as an external concern behind this seam.
type SpreadsheetEncoder interface {
	Encode(rows [][]string) ([]byte, error)
}

// ExcelEncoder encodes the grid as a single-sheet .xlsx workbook.
type ExcelEncoder struct{}

func (ExcelEncoder) Encode(rows [][]string) ([]byte, error) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())

	for rowIndex, row := range rows {
		for colIndex, cell := range row {
			name, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell %d,%d: %w", rowIndex, colIndex, err)
			}
			if err := workbook.SetCellValue(sheet, name, cell); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", name, err)
			}
		}
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buffer.Bytes(), nil
}
