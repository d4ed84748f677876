package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	username string
	password string
	remember bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check the transport credentials and remember them",
	RunE:  runLogin,
}

func init() {
	addCredentialFlags(loginCmd)
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (default: remembered identity)")
	cmd.Flags().StringVarP(&password, "password", "p", os.Getenv("BULKMAIL_PASSWORD"), "account password (env BULKMAIL_PASSWORD)")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the password for later runs")
}

func runLogin(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintln(cmd.OutOrStdout(), "login succeeded")
	return nil
}
