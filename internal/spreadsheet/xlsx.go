package spreadsheet

import (
	"github.com/xuri/excelize/v2"
)

// sequenceCell is the data column holding the sequence number
const sequenceCell = 1

func readXLSX(path, sheet string) ([][]string, bool, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, false, nil
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, false, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, false, err
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, err
	}
	useRawSequence(rows, raw)
	return rows, true, nil
}

// useRawSequence replaces the displayed sequence text with the stored value,
// so a number format cannot round it before coercion. Other cells keep
// their displayed text.
func useRawSequence(rows, raw [][]string) {
	for i := range rows {
		if i >= len(raw) || len(rows[i]) <= sequenceCell || len(raw[i]) <= sequenceCell {
			continue
		}
		rows[i][sequenceCell] = raw[i][sequenceCell]
	}
}
