package spreadsheet

import (
	"fmt"
	"os"

	"github.com/extrame/xls"
)

const xlsCharset = "utf-8"

func readXLS(path, sheet string) (rows [][]string, found bool, err error) {
	// the BIFF decoder panics on some truncated streams
	defer func() {
		if r := recover(); r != nil {
			rows, found, err = nil, false, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, xlsCharset)
	if err != nil {
		return nil, false, err
	}
	if wb == nil {
		return nil, false, fmt.Errorf("no workbook stream")
	}

	ws := findXLSSheet(wb, sheet)
	if ws == nil {
		return nil, false, nil
	}

	for i := 0; i <= int(ws.MaxRow); i++ {
		row := xlsRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, true, nil
}

// xlsRow returns nil for a row the file does not store. WorkSheet.Row
// dereferences the missing entry, so the panic is the only signal.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func findXLSSheet(wb *xls.WorkBook, name string) *xls.WorkSheet {
	if wb.NumSheets() == 0 {
		return nil
	}
	if name == "" {
		return wb.GetSheet(0)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil && ws.Name == name {
			return ws
		}
	}
	return nil
}
