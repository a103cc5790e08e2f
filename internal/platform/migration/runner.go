// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with
// golang-migrate. The API applies them at startup; the migrate command
// applies or inspects them without serving.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Status is the schema version recorded in schema_migrations.
type Status struct {
	Version uint
	Dirty   bool
	// Pristine is true before the first migration ran.
	Pristine bool
}

// RunUp applies every pending migration. A dirty schema is refused.
func RunUp(dsn, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		before, err := readStatus(migrator)
		if err != nil {
			return err
		}
		if before.Dirty {
			return fmt.Errorf("migration_dirty_schema: version %d needs manual repair", before.Version)
		}

		err = migrator.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(before.Version)))
			return nil
		}
		if err != nil {
			return fmt.Errorf("migration_up_failed: %w", err)
		}

		after, err := readStatus(migrator)
		if err != nil {
			return err
		}
		logger.Info("migration_applied",
			slog.Uint64("from_version", uint64(before.Version)),
			slog.Uint64("to_version", uint64(after.Version)),
		)
		return nil
	})
}

// Current reports the schema version without changing it.
func Current(dsn, migrationsPath string, logger *slog.Logger) (Status, error) {
	var status Status
	err := withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		var err error
		status, err = readStatus(migrator)
		return err
	})
	return status, err
}

func withMigrator(dsn, migrationsPath string, logger *slog.Logger, run func(*migrate.Migrate) error) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration_init_failed: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := migrator.Close(); sourceErr != nil || dbErr != nil {
			logger.Error("migration_close_failed", slog.Any("source_error", sourceErr), slog.Any("db_error", dbErr))
		}
	}()

	migrator.Log = slogBridge{logger: logger}
	return run(migrator)
}

func readStatus(migrator *migrate.Migrate) (Status, error) {
	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Pristine: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration_version_failed: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// pgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5 scheme the
// migrate driver registers. Key/value DSNs pass through unchanged.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge routes golang-migrate's progress lines to debug logs.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (bridge slogBridge) Verbose() bool { return false }
