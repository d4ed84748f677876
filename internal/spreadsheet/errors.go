package spreadsheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates the file extension is not a recognized workbook format.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// OpenError represents a failure to parse a workbook of its claimed format.
type OpenError struct {
	Path   string
	Format Format
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s workbook %q: %v", e.Format, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func newOpenError(path string, format Format, err error) *OpenError {
	return &OpenError{
		Path:   path,
		Format: format,
		Err:    err,
	}
}
