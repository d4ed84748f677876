// Package main provides the CLI entry point for bulkmail.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bulkmail",
	Short: "Send a personalized message to every recipient of a spreadsheet",
	Long: `bulkmail imports a recipient workbook (.xlsx or .xls), renders one message
per selected row and submits it over SMTP or Gmail. Rows that fail stay
pending and can be exported and re-sent.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./bulkmail.yaml)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
