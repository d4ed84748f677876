package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bulkmail/bulkmail/internal/render"
	"github.com/bulkmail/bulkmail/internal/spreadsheet"
)

var (
	previewRow    int
	previewRemark string
	previewText   bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [workbook]",
	Short: "Print the imported table or the rendered body of one row",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewRow, "row", 0, "render the body of this row (1-based); 0 lists the table")
	previewCmd.Flags().StringVar(&previewRemark, "remark", "", "remark footer to render")
	previewCmd.Flags().BoolVar(&previewText, "text", false, "render the plain-text body instead of HTML")
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	table, err := spreadsheet.Ingest(args[0], a.ingestOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if previewRow == 0 {
		printTable(out, table)
		return nil
	}
	if previewRow < 1 || previewRow > table.Len() {
		return fmt.Errorf("row %d out of range (1-%d)", previewRow, table.Len())
	}

	r := render.New(a.cfg.Render.RemarkPrefix)
	row := table.Rows[previewRow-1]
	if previewText {
		fmt.Fprint(out, r.RenderText(row, table.Columns, previewRemark))
	} else {
		fmt.Fprintln(out, r.Render(row, table.Columns, previewRemark))
	}
	return nil
}
