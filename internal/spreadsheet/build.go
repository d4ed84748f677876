package spreadsheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/bulkmail/bulkmail/internal/model"
)

// fixedLabels name header cells that a short header row is padded with.
var fixedLabels = [model.FixedFields]string{"email", "sequence", "name"}

// BuildTable turns raw cell text into a Table. The first non-blank row is
// the schema, every following non-blank row becomes a Row whose info tail is
// padded or truncated to the schema width.
func BuildTable(rows [][]string, opts Options) *model.Table {
	opts = opts.withDefaults()
	table := &model.Table{}

	for len(rows) > 0 && isBlank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return table
	}

	table.Columns = buildColumns(rows[0], opts)
	infoWidth := table.InfoWidth()

	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		table.Rows = append(table.Rows, buildRow(cells, infoWidth))
	}
	return table
}

func buildColumns(header []string, opts Options) []model.Column {
	columns := make([]model.Column, 0, len(header)+1)
	columns = append(columns, model.Column{
		Name:     opts.SelectAllLabel,
		Width:    SelectColumnWidth,
		Selected: true,
	})

	for i := 0; i < len(header) || i < model.FixedFields; i++ {
		var name string
		if i < len(header) {
			name = cleanLabel(header[i])
		} else {
			name = fixedLabels[i]
		}
		width := DefaultColumnWidth
		if name == opts.EmailLabel {
			width = EmailColumnWidth
		}
		columns = append(columns, model.Column{Name: name, Width: width, Selected: true})
	}
	return columns
}

func buildRow(cells []string, infoWidth int) model.Row {
	row := model.Row{
		Info:     make([]string, infoWidth),
		Selected: true,
	}
	for i, v := range cells {
		switch {
		case i == 0:
			row.Email = strings.TrimSpace(v)
		case i == 1:
			row.Sequence = ParseSequence(v)
		case i == 2:
			row.Name = strings.TrimSpace(v)
		case i-model.FixedFields < infoWidth:
			row.Info[i-model.FixedFields] = v
		}
	}
	return row
}

// ParseSequence reads an integral cell as-is, truncates a floating-point cell
// toward zero, and yields 0 for anything else.
func ParseSequence(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

func cleanLabel(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
