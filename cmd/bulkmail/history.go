package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bulkmail/bulkmail/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history [batch-id]",
	Short: "List the journaled delivery attempts of one dispatch pass",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled, set journal.enabled to record deliveries")
	}
	db, err := a.postgres()
	if err != nil {
		return err
	}

	deliveries, err := journal.NewRepository(db).ListByBatch(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(deliveries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no deliveries recorded for batch %s\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSEQ\tEMAIL\tNAME\tSTATUS\tERROR")
	for _, d := range deliveries {
		msg := ""
		if d.Error != nil {
			msg = *d.Error
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			d.CreatedAt.Local().Format(time.DateTime), d.Sequence, d.Email, d.Name, d.Status, msg)
	}
	return tw.Flush()
}
