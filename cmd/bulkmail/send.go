package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bulkmail/bulkmail/internal/dispatch"
	"github.com/bulkmail/bulkmail/internal/spreadsheet"
	"github.com/bulkmail/bulkmail/internal/workflow"
)

var (
	sendSubject  string
	sendRemark   string
	sendOnly     []int
	sendExclude  []int
	sendResidual string
	sendYes      bool
)

var sendCmd = &cobra.Command{
	Use:   "send [workbook]",
	Short: "Send one personalized message per selected row",
	Long: `send imports the workbook, applies the row selection and dispatches one
message per selected row. Rows that fail, and rows left unselected, are
written to --residual so the next run can pick up where this one stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	addCredentialFlags(sendCmd)
	sendCmd.Flags().StringVarP(&sendSubject, "subject", "s", "", "subject template, {name} is replaced by the recipient name (default: last used)")
	sendCmd.Flags().StringVarP(&sendRemark, "remark", "r", "", "remark appended below the table (default: last used)")
	sendCmd.Flags().IntSliceVar(&sendOnly, "only", nil, "send only these rows (1-based)")
	sendCmd.Flags().IntSliceVar(&sendExclude, "exclude", nil, "skip these rows (1-based)")
	sendCmd.Flags().StringVar(&sendResidual, "residual", "", "write undelivered rows to this .xlsx file")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "do not ask for confirmation")
}

func runSend(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	w, _, err := a.workflow(ctx)
	if err != nil {
		return err
	}
	if err := a.login(ctx, w, username, password, remember); err != nil {
		return err
	}

	if _, err := w.Import(args[0]); err != nil {
		return err
	}
	if err := applySelection(w); err != nil {
		return err
	}
	if err := applyDraft(cmd, w); err != nil {
		return err
	}

	table, err := w.Table()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if table.SelectedCount() == 0 {
		fmt.Fprintln(out, "no rows selected, nothing to send")
		return nil
	}

	draft, err := w.Draft()
	if err != nil {
		return err
	}
	if !sendYes && !confirm(cmd, fmt.Sprintf("send %d messages with subject %q?", table.SelectedCount(), draft.Subject)) {
		fmt.Fprintln(out, "cancelled")
		return nil
	}

	res, err := w.Dispatch(ctx)
	if err != nil {
		return err
	}
	report(cmd, res)

	if sendResidual != "" && !res.AllDelivered() {
		if err := spreadsheet.Export(sendResidual, res.Residual); err != nil {
			return fmt.Errorf("failed to write residual rows: %w", err)
		}
		fmt.Fprintf(out, "pending rows written to %s\n", sendResidual)
	}
	return nil
}

func applySelection(w *workflow.Workflow) error {
	if len(sendOnly) > 0 {
		if err := w.ToggleAll(false); err != nil {
			return err
		}
		for _, n := range sendOnly {
			if err := w.ToggleRow(n-1, true); err != nil {
				return err
			}
		}
	}
	for _, n := range sendExclude {
		if err := w.ToggleRow(n-1, false); err != nil {
			return err
		}
	}
	return nil
}

func applyDraft(cmd *cobra.Command, w *workflow.Workflow) error {
	if cmd.Flags().Changed("subject") {
		if err := w.SetSubject(sendSubject); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("remark") {
		if err := w.SetRemark(sendRemark); err != nil {
			return err
		}
	}
	return nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func report(cmd *cobra.Command, res *dispatch.Result) {
	out := cmd.OutOrStdout()
	for _, f := range res.Failures {
		fmt.Fprintf(out, "failed  %s: %v\n", f.Email, f.Err)
	}
	fmt.Fprintf(out, "batch %s: %d attempted, %d delivered, %s\n", res.BatchID, res.Attempted, res.Delivered, res.Summary())
}
