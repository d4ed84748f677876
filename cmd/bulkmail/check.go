package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the transport credentials and the configured backends",
	RunE:  runCheck,
}

func init() {
	addCredentialFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	var services []service
	add := func(name string, err error) {
		services = append(services, service{name: name, err: err})
	}

	if a.cfg.Store.Driver == "redis" {
		rdb, err := a.redis()
		if err == nil {
			err = rdb.HealthCheck(ctx)
		}
		add("redis", err)
	}

	if a.cfg.Journal.Enabled {
		db, err := a.postgres()
		if err == nil {
			err = db.HealthCheck(ctx)
		}
		add("postgres", err)
	}

	w, _, err := a.workflow(ctx)
	if err == nil {
		err = a.login(ctx, w, username, password, false)
	}
	add("transport", err)

	degraded := false
	for _, s := range services {
		if s.err != nil {
			degraded = true
			fmt.Fprintf(out, "%-10s unhealthy: %v\n", s.name, s.err)
			continue
		}
		fmt.Fprintf(out, "%-10s healthy\n", s.name)
	}
	if degraded {
		return fmt.Errorf("status: degraded")
	}
	fmt.Fprintln(out, "status: healthy")
	return nil
}

type service struct {
	name string
	err  error
}
