package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulkmail/bulkmail/internal/model"
)

func columns(names ...string) []model.Column {
	cols := []model.Column{{Name: "全选", Width: 50, Selected: true}}
	for _, n := range names {
		cols = append(cols, model.Column{Name: n, Width: 100, Selected: true})
	}
	return cols
}

// assertOrdered fails unless every needle appears in haystack after the previous one.
func assertOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	pos := 0
	for _, n := range needles {
		i := strings.Index(haystack[pos:], n)
		if i < 0 {
			t.Fatalf("%q not found after offset %d in:\n%s", n, pos, haystack)
		}
		pos += i + len(n)
	}
}

func TestRenderFieldOrder(t *testing.T) {
	row := model.Row{
		Email:    "alice@example.com",
		Sequence: 17,
		Name:     "Alice",
		Info:     []string{"DEPT-X", "AMOUNT-Y"},
		Selected: true,
	}
	cols := columns("邮箱地址", "序号", "姓名", "部门", "金额")
	cols[1].Width = 250

	out := Render(row, cols, "please reply")

	assertOrdered(t, out, "邮箱地址", "序号", "姓名", "部门", "金额",
		"alice@example.com", "17", "Alice", "DEPT-X", "AMOUNT-Y",
		DefaultRemarkPrefix+"please reply")
	assert.NotContains(t, out, "全选")
}

func TestRenderMissingInfo(t *testing.T) {
	row := model.Row{Email: "bob@example.com", Sequence: 2, Name: "Bob"}
	cols := columns("email", "seq", "name", "a", "b")

	out := Render(row, cols, "")
	assert.Equal(t, 5, strings.Count(out, `font-size: 15px;`))

	fields := Fields(row, cols)
	assert.Equal(t, []string{"bob@example.com", "2", "Bob", "", ""}, fields)
}

func TestRenderEscapesValues(t *testing.T) {
	row := model.Row{
		Email: "x@example.com",
		Name:  `<script>alert("x")</script>`,
		Info:  []string{"a & b"},
	}
	out := Render(row, columns("email", "seq", "name", "<b>note</b>"), "<i>remark</i>")

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>note</b>")
	assert.NotContains(t, out, "<i>remark</i>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &amp; b")
}

func TestRenderText(t *testing.T) {
	row := model.Row{Email: "c@example.com", Sequence: 3, Name: "Carol", Info: []string{"Ops"}}
	r := New("Note: ")

	out := r.RenderText(row, columns("email", "seq", "name", "dept"), "thanks")
	assert.Equal(t, "email: c@example.com\nseq: 3\nname: Carol\ndept: Ops\n\nNote: thanks\n", out)
}
