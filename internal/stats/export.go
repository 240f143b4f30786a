package stats

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet holding the report.
const ExportSheet = "Sheet1"

// ExportName is the file name used when the report is sent as a document.
const ExportName = "jeepyq-stats.xlsx"

var exportHeader = []interface{}{"Exam", "Year", "Delivered", "Failed"}

// Export renders the summary as an xlsx workbook: a header row, one row per
// exam year and a closing totals row.
func Export(sum Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	row := 1
	if err := setRow(f, row, exportHeader); err != nil {
		return nil, err
	}
	var delivered int64
	for _, b := range sum.Buckets {
		row++
		if err := setRow(f, row, []interface{}{b.Kind.DisplayName(), b.Year, b.Delivered, b.Failed}); err != nil {
			return nil, err
		}
		delivered += b.Delivered
	}
	row++
	if err := setRow(f, row, []interface{}{"Total", "", delivered, sum.Failed}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("stats export: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("stats export: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
		return fmt.Errorf("stats export row %d: %w", row, err)
	}
	return nil
}
