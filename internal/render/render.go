// Package render produces the personalized message body for one recipient row.
package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/bulkmail/bulkmail/internal/model"
)

// DefaultRemarkPrefix introduces the remark footer.
const DefaultRemarkPrefix = "*附："

const bodyTemplate = `<div><table border="0" cellspacing="1" cellpadding="0" bgcolor="#000000">
<tr bgcolor="#ffffff" style="white-space: nowrap;">
{{- range .Headers}}
<td bgcolor="#dbeef3" height="14" style="padding: 5px;"><div align="left"><span style="font-family: 宋体, serif; color: rgb(0, 0, 0); font-size: 11px; font-weight: bold;">{{.}}</span></div></td>
{{- end}}
</tr>
<tr bgcolor="#ffffff" style="white-space: nowrap;">
{{- range .Cells}}
<td bgcolor="#ffffff" height="17" style="padding: 5px;"><div align="center"><span style="font-family: 宋体, serif; color: rgb(0, 0, 0); font-size: 15px;">{{.}}</span></div></td>
{{- end}}
</tr>
</table>
<p>&nbsp;</p>
<p>{{.RemarkPrefix}}{{.Remark}}</p></div>`

var body = template.Must(template.New("body").Parse(bodyTemplate))

type bodyData struct {
	Headers      []string
	Cells        []string
	RemarkPrefix string
	Remark       string
}

// Renderer renders message bodies
type Renderer struct {
	RemarkPrefix string
}

// New creates a Renderer. An empty prefix selects DefaultRemarkPrefix.
func New(remarkPrefix string) *Renderer {
	if remarkPrefix == "" {
		remarkPrefix = DefaultRemarkPrefix
	}
	return &Renderer{RemarkPrefix: remarkPrefix}
}

// Render renders row with the package defaults.
func Render(row model.Row, columns []model.Column, remark string) string {
	return New("").Render(row, columns, remark)
}

// Render returns the HTML body for row. Every interpolated value is escaped.
// Info slots the row does not have render as empty cells.
func (r *Renderer) Render(row model.Row, columns []model.Column, remark string) string {
	data := bodyData{
		Headers:      headers(columns),
		Cells:        Fields(row, columns),
		RemarkPrefix: r.RemarkPrefix,
		Remark:       remark,
	}

	var buf bytes.Buffer
	// the template is fixed and writes to memory; execution cannot fail on
	// these plain string fields
	_ = body.Execute(&buf, data)
	return buf.String()
}

// RenderText returns a plain-text alternative of the HTML body, one
// "label: value" line per field.
func (r *Renderer) RenderText(row model.Row, columns []model.Column, remark string) string {
	labels := headers(columns)
	fields := Fields(row, columns)

	var b strings.Builder
	for i, v := range fields {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	if remark != "" {
		b.WriteString("\n")
		b.WriteString(r.RemarkPrefix)
		b.WriteString(remark)
		b.WriteString("\n")
	}
	return b.String()
}

// Fields returns the row's values in display order: email, sequence, name,
// then info. The info tail spans the schema width or the row's own length,
// whichever is larger.
func Fields(row model.Row, columns []model.Column) []string {
	n := len(columns) - 1 - model.FixedFields
	if len(row.Info) > n {
		n = len(row.Info)
	}
	if n < 0 {
		n = 0
	}

	out := make([]string, 0, model.FixedFields+n)
	out = append(out, row.Email, strconv.FormatInt(row.Sequence, 10), row.Name)
	for i := 0; i < n; i++ {
		out = append(out, row.InfoAt(i))
	}
	return out
}

// headers skips the select-all column.
func headers(columns []model.Column) []string {
	if len(columns) <= 1 {
		return nil
	}
	out := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		out = append(out, c.Name)
	}
	return out
}
