// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/collabconnect/internal/platform/migration"
)

func newMigrateCommand(envFile *string) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, log, err := loadConfig(*envFile)
				if err != nil {
					return err
				}
				if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
					return startupFailure(log, "run migrations", err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadConfig(*envFile)
				if err != nil {
					return err
				}
				status, err := migration.Current(cfg.DatabaseURL, cfg.MigrationPath, log)
				if err != nil {
					return startupFailure(log, "read schema version", err)
				}

				switch {
				case status.Pristine:
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				case status.Dirty:
					fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", status.Version)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%d\n", status.Version)
				}
				return nil
			},
		},
	)

	return migrate
}
