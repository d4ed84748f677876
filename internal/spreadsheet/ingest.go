package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bulkmail/bulkmail/internal/model"
)

// sheetReader loads the cell text of one worksheet. found is false when the
// requested sheet does not exist in the workbook.
type sheetReader func(path, sheet string) (rows [][]string, found bool, err error)

var readers = map[Format]sheetReader{
	FormatXLSX: readXLSX,
	FormatXLS:  readXLS,
}

// DetectFormat maps a file path to a supported format by its extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatXLSX, FormatXLS:
		return Format(ext), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Ingest reads the default worksheet of the workbook at path into a fresh Table.
// A missing worksheet yields an empty Table and no error.
func Ingest(path string, opts Options) (*model.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	rows, found, err := readers[format](path, opts.Sheet)
	if err != nil {
		return nil, newOpenError(path, format, err)
	}
	if !found {
		return &model.Table{}, nil
	}

	table := BuildTable(rows, opts)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("ingested table is inconsistent: %w", err)
	}
	return table, nil
}
