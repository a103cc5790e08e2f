// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the CollabConnect HTTP API server.
//
// # Commands
//
//   - serve (default): run the API with graceful shutdown.
//   - migrate up: apply pending schema migrations and exit.
//   - migrate version: print the applied schema version.
//   - role <job title> <company>: print the system role a registration resolves to.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/collabconnect/internal/platform/config"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Running the root alone serves.
func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "collabconnect",
		Short:         "CollabConnect HR portal API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(
		newServeCommand(&envFile),
		newMigrateCommand(&envFile),
		newRoleCommand(),
	)
	return root
}

// newLogger builds the JSON logger carrying the app attribute.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(
			slog.String(constants.FieldApp, constants.AppName),
			slog.String(constants.FieldVersion, constants.AppVersion),
		)
	slog.SetDefault(log)
	return log
}

// loadConfig reads configuration and builds the matching logger.
func loadConfig(envFile string) (*config.Config, *slog.Logger, error) {
	bootLog := newLogger(false)

	cfg, err := config.Load(envFile)
	if err != nil {
		bootLog.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		return nil, nil, err
	}

	log := bootLog
	if cfg.Debug {
		log = newLogger(true)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)
	return cfg, log, nil
}
