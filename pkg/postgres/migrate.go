package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunMigrations applies every pending up migration under dir in fsys, usually
// an embed.FS holding golang-migrate files (000001_name.up.sql). Nothing to
// apply is not an error.
func RunMigrations(dsn string, fsys fs.FS, dir string) error {
	return migrateWith(dsn, fsys, dir, "up", (*migrate.Migrate).Up)
}

// RunMigrationsDown rolls every migration back. Nothing to roll back is not
// an error.
func RunMigrationsDown(dsn string, fsys fs.FS, dir string) error {
	return migrateWith(dsn, fsys, dir, "down", (*migrate.Migrate).Down)
}

func migrateWith(dsn string, fsys fs.FS, dir, direction string, step func(*migrate.Migrate) error) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("postgres: open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations %s: %w", direction, err)
	}
	return nil
}
