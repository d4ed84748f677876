// Package spreadsheet reads recipient workbooks into a model.Table and writes
// residual tables back out.
package spreadsheet

// Format identifies a supported workbook container
type Format string

const (
	// FormatXLSX is the Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatXLS is the legacy BIFF8 workbook.
	FormatXLS Format = "xls"
)

const (
	// DefaultColumnWidth is the display width of an ordinary column.
	DefaultColumnWidth = 100.0
	// EmailColumnWidth is the display width of the recipient address column.
	EmailColumnWidth = 250.0
	// SelectColumnWidth is the display width of the synthetic select-all column.
	SelectColumnWidth = 50.0

	// DefaultEmailLabel is the header label that marks the address column.
	DefaultEmailLabel = "邮箱地址"
	// DefaultSelectAllLabel names the synthetic select-all column.
	DefaultSelectAllLabel = "全选"
)

// Options configures ingestion.
type Options struct {
	// Sheet names the worksheet to read. If empty, the first sheet is used.
	Sheet string
	// EmailLabel is the header label that receives the wider email width.
	EmailLabel string
	// SelectAllLabel names the synthetic column prepended to the schema.
	SelectAllLabel string
}

// DefaultOptions returns default ingestion options.
func DefaultOptions() Options {
	return Options{
		EmailLabel:     DefaultEmailLabel,
		SelectAllLabel: DefaultSelectAllLabel,
	}
}

func (o Options) withDefaults() Options {
	if o.EmailLabel == "" {
		o.EmailLabel = DefaultEmailLabel
	}
	if o.SelectAllLabel == "" {
		o.SelectAllLabel = DefaultSelectAllLabel
	}
	return o
}
