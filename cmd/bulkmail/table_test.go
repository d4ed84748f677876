package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/bulkmail/bulkmail/internal/model"
)

func TestPrintTable(t *testing.T) {
	table := &model.Table{
		Columns: []model.Column{{Name: "全选"}, {Name: "邮箱地址"}, {Name: "序号"}, {Name: "姓名"}, {Name: "部门"}},
		Rows: []model.Row{
			{Email: "a@example.com", Name: "Ann", Sequence: 1, Info: []string{"Ops"}, Selected: true},
			{Email: "b@example.com", Name: "Bob", Sequence: 2, Info: []string{"Dev"}},
		},
	}

	var buf bytes.Buffer
	printTable(&buf, table)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "邮箱地址")
	assert.Contains(t, lines[1], "[x]")
	assert.Contains(t, lines[1], "a@example.com")
	assert.Contains(t, lines[2], "[ ]")
	assert.Contains(t, lines[2], "Dev")
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, &model.Table{})
	assert.Equal(t, "no rows\n", buf.String())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(tt.input))
		cmd.SetOut(&bytes.Buffer{})
		assert.Equal(t, tt.want, confirm(cmd, "go?"), "input %q", tt.input)
	}
}
