package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foylaou/ExpoPass-sub000/internal/config"
	"github.com/foylaou/ExpoPass-sub000/internal/storage"
	"github.com/foylaou/ExpoPass-sub000/migrations"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.postgres(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			applied, err := migrations.Apply(cmd.Context(), b.Pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations not yet applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.postgres(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			pending, err := migrations.Pending(cmd.Context(), b.Pool)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				return nil
			}
			for _, name := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "pending %s\n", name)
			}
			return nil
		},
	})
	return cmd
}

// postgres opens the configured store without migrating. Other drivers
// create their schema on open and are rejected.
func (c *cli) postgres(cmd *cobra.Command) (*storage.Backend, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver != config.DriverPostgres {
		return nil, fmt.Errorf("migrate requires the postgres driver, got %q", cfg.StorageDriver)
	}
	return storage.Open(cmd.Context(), cfg, false, c.logger)
}
