package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bulkmail/bulkmail/internal/model"
	"github.com/bulkmail/bulkmail/internal/render"
)

// printTable lists a table with a leading selection marker per row
func printTable(w io.Writer, table *model.Table) {
	if table.IsEmpty() {
		fmt.Fprintln(w, "no rows")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	names := make([]string, 0, len(table.Columns)+1)
	names = append(names, "#")
	for _, c := range table.Columns {
		names = append(names, c.Name)
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))

	for i, row := range table.Rows {
		mark := "[ ]"
		if row.Selected {
			mark = "[x]"
		}
		cells := append([]string{fmt.Sprint(i + 1), mark}, render.Fields(row, table.Columns)...)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
