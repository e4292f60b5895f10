// Command checkinctl runs maintenance tasks against the check-in store:
// schema migrations, token issuing and inspection, and stats reports.
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foylaou/ExpoPass-sub000/internal/config"
	"github.com/foylaou/ExpoPass-sub000/internal/storage"
)

func main() {
	if err := newRootCmd(log.StandardLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	logger *log.Logger
	driver string
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	c := &cli{logger: logger}

	root := &cobra.Command{
		Use:          "checkinctl",
		Short:        "Maintenance commands for the booth check-in service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "storage driver (postgres, sqlite, memory); defaults to STORAGE_DRIVER")

	root.AddCommand(
		newMigrateCmd(c),
		newTokenCmd(c),
		newStatsCmd(c),
	)
	return root
}

func (c *cli) config() (config.Config, error) {
	cfg, err := config.Load(c.logger)
	if err != nil {
		return config.Config{}, err
	}
	if c.driver != "" {
		cfg.StorageDriver = c.driver
	}
	c.logger.SetLevel(cfg.LogLevel)
	c.logger.SetFormatter(cfg.Formatter())
	return cfg, nil
}

func (c *cli) open(ctx context.Context, migrate bool) (*storage.Backend, config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, config.Config{}, err
	}
	b, err := storage.Open(ctx, cfg, migrate, c.logger)
	if err != nil {
		return nil, config.Config{}, err
	}
	return b, cfg, nil
}
