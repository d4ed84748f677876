package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bulkmail/bulkmail/internal/model"
)

// writeWorkbook saves rows into Sheet1 of a new xlsx file and returns its path.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	path := filepath.Join(t.TempDir(), "recipients.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func TestIngestXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"邮箱\n地址", "序号", "姓名", "部门", "金额"},
		{"a@example.com", 1, "Alice", "R&D", 100.5},
		{"b@example.com", "2", "Bob", "Sales"},
		{"c@example.com", 3, "Carol", "Ops", 7, "overflow"},
	})

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, table.Columns, 6)
	assert.Equal(t, DefaultSelectAllLabel, table.Columns[0].Name)
	assert.Equal(t, SelectColumnWidth, table.Columns[0].Width)
	assert.Equal(t, "邮箱地址", table.Columns[1].Name)
	assert.Equal(t, EmailColumnWidth, table.Columns[1].Width)
	assert.Equal(t, DefaultColumnWidth, table.Columns[2].Width)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, model.Row{
		Email:    "a@example.com",
		Sequence: 1,
		Name:     "Alice",
		Info:     []string{"R&D", "100.5"},
		Selected: true,
	}, table.Rows[0])
	assert.Equal(t, []string{"Sales", ""}, table.Rows[1].Info)
	assert.Equal(t, []string{"Ops", "7"}, table.Rows[2].Info)
}

func TestIngestSchemaAlignment(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"email", "seq", "name", "a", "b", "c"},
		{"a@example.com"},
		{"b@example.com", 2, "B", "1"},
		{},
		{"c@example.com", 3, "C", "1", "2", "3", "4", "5"},
	})

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 3, "blank rows are skipped")

	maxInfo := 0
	for _, r := range table.Rows {
		assert.Len(t, r.Info, len(table.Columns)-4)
		if len(r.Info) > maxInfo {
			maxInfo = len(r.Info)
		}
	}
	assert.Equal(t, len(table.Columns), 4+maxInfo)
}

func TestIngestSequenceCoercion(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"email", "seq", "name"},
		{"a@example.com", "42", "A"},
		{"b@example.com", "3.9", "B"},
		{"c@example.com", "n/a", "C"},
		{"d@example.com", 12, "D"},
	})

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)

	assert.EqualValues(t, 42, table.Rows[0].Sequence)
	assert.EqualValues(t, 3, table.Rows[1].Sequence)
	assert.EqualValues(t, 0, table.Rows[2].Sequence)
	assert.EqualValues(t, 12, table.Rows[3].Sequence)
}

func TestIngestSequenceIgnoresNumberFormat(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"邮箱地址", "序号", "姓名", "金额"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"a@example.com", 3.9, "Alice", 7}))

	integer, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", integer))
	twoPlaces, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D2", twoPlaces))

	path := filepath.Join(t.TempDir(), "formatted.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	assert.EqualValues(t, 3, table.Rows[0].Sequence, "stored 3.9 truncates, the displayed 4 is ignored")
	assert.Equal(t, []string{"7.00"}, table.Rows[0].Info, "info keeps the displayed text")
}

func TestIngestHeaderBelowBlankRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{},
		{"邮箱地址", "序号", "姓名", "部门"},
		{"a@example.com", 1, "Alice", "R&D"},
	})

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, table.Columns, 5)
	assert.Equal(t, "邮箱地址", table.Columns[1].Name)
	assert.Equal(t, "部门", table.Columns[4].Name)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "a@example.com", table.Rows[0].Email)
	assert.Equal(t, []string{"R&D"}, table.Rows[0].Info)
}

func TestBuildTableSkipsLeadingBlankRows(t *testing.T) {
	table := BuildTable([][]string{
		nil,
		{"", "  "},
		{"email", "seq", "name", "dept"},
		{"a@example.com", "1", "A", "Ops"},
	}, DefaultOptions())

	require.Len(t, table.Columns, 5)
	assert.Equal(t, "email", table.Columns[1].Name)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "a@example.com", table.Rows[0].Email)

	assert.Equal(t, &model.Table{}, BuildTable([][]string{nil, {""}}, DefaultOptions()))
}

func TestIngestXLSMatchesXLSX(t *testing.T) {
	// testdata/recipients.xls holds the same cells: a leading blank row, a
	// blank row between records and a short row.
	twin := writeWorkbook(t, [][]interface{}{
		{},
		{"邮箱地址", "序号", "姓名", "部门", "金额"},
		{"a@example.com", 1, "Alice", "R&D", 100.5},
		{},
		{"b@example.com", 2.7, "Bob", "Sales"},
		{"c@example.com", "n/a", "Carol", "Ops", 7},
	})

	fromXLS, err := Ingest(filepath.Join("testdata", "recipients.xls"), DefaultOptions())
	require.NoError(t, err)
	fromXLSX, err := Ingest(twin, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, fromXLSX, fromXLS)

	require.Len(t, fromXLS.Columns, 6)
	assert.Equal(t, EmailColumnWidth, fromXLS.Columns[1].Width)
	require.Len(t, fromXLS.Rows, 3)
	assert.Equal(t, model.Row{
		Email:    "a@example.com",
		Sequence: 1,
		Name:     "Alice",
		Info:     []string{"R&D", "100.5"},
		Selected: true,
	}, fromXLS.Rows[0])
	assert.EqualValues(t, 2, fromXLS.Rows[1].Sequence)
	assert.Equal(t, []string{"Sales", ""}, fromXLS.Rows[1].Info)
	assert.EqualValues(t, 0, fromXLS.Rows[2].Sequence)
	assert.Equal(t, []string{"Ops", "7"}, fromXLS.Rows[2].Info)
}

func TestIngestXLSSheetSelection(t *testing.T) {
	path := filepath.Join("testdata", "recipients.xls")

	opts := DefaultOptions()
	opts.Sheet = "Sheet1"
	table, err := Ingest(path, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	opts.Sheet = "Recipients"
	table, err = Ingest(path, opts)
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
}

func TestIngestShortHeader(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"email"},
		{"a@example.com", 5, "A"},
	})

	table, err := Ingest(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, table.Columns, 4)
	assert.Equal(t, "sequence", table.Columns[2].Name)
	assert.Equal(t, "name", table.Columns[3].Name)
	assert.Empty(t, table.Rows[0].Info)
	assert.EqualValues(t, 5, table.Rows[0].Sequence)
}

func TestIngestMissingSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"email", "seq", "name"},
		{"a@example.com", 1, "A"},
	})

	opts := DefaultOptions()
	opts.Sheet = "Recipients"
	table, err := Ingest(path, opts)
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
	assert.Empty(t, table.Columns)
}

func TestIngestUnsupportedFormat(t *testing.T) {
	_, err := Ingest(filepath.Join(t.TempDir(), "recipients.csv"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngestOpenError(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"broken.xlsx", "broken.XLS"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("definitely not a workbook"), 0644))

		_, err := Ingest(path, DefaultOptions())
		require.Error(t, err, name)

		var openErr *OpenError
		require.True(t, errors.As(err, &openErr), "%s: expected OpenError, got %v", name, err)
		assert.Equal(t, path, openErr.Path)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"42", 42},
		{"3.9", 3},
		{"-2.7", -2},
		{" 8 ", 8},
		{"1e3", 1000},
		{"NaN", 0},
		{"hello", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseSequence(tt.input), "ParseSequence(%q)", tt.input)
	}
}

func TestExportRoundTrip(t *testing.T) {
	src := writeWorkbook(t, [][]interface{}{
		{"邮箱地址", "序号", "姓名", "部门"},
		{"a@example.com", 1, "Alice", "R&D"},
		{"b@example.com", 2, "Bob", ""},
	})
	table, err := Ingest(src, DefaultOptions())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "residual.xlsx")
	require.NoError(t, Export(out, table))

	again, err := Ingest(out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, table, again)

	assert.ErrorIs(t, Export(filepath.Join(t.TempDir(), "residual.xls"), table), ErrUnsupportedFormat)
}
