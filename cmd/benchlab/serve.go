package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/benchlab/api"
	"github.com/stellarlinkco/benchlab/internal/store"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve run history over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, st, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, st *cliState, addr string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("serve: missing config (internal error)")
	}

	stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	srv, err := api.NewServer(stor)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = st.cfg.Server.Addr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
	return srv.Run(addr)
}
