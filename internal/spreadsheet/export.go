package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bulkmail/bulkmail/internal/model"
)

const exportSheet = "Sheet1"

// Export writes table to path as an xlsx workbook in the same layout Ingest
// reads, so a residual table can be re-imported for the next attempt.
func Export(path string, table *model.Table) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if format != FormatXLSX {
		return fmt.Errorf("%w: export writes xlsx only", ErrUnsupportedFormat)
	}

	f := excelize.NewFile()
	defer f.Close()

	if len(table.Columns) > 1 {
		header := make([]interface{}, 0, len(table.Columns)-1)
		for _, c := range table.Columns[1:] {
			header = append(header, c.Name)
		}
		if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range table.Rows {
		values := make([]interface{}, 0, model.FixedFields+len(r.Info))
		values = append(values, r.Email, r.Sequence, r.Name)
		for _, v := range r.Info {
			values = append(values, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
