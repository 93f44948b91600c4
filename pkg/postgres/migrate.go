package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies golang-migrate files ("000001_name.up.sql") read from an
// fs.FS, usually an embed.FS compiled into the binary.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens the migrations under dir and connects to dsn.
func NewMigrator(dsn string, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("postgres: migration source %q: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: migrator: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies pending migrations. An up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	return ignoreNoChange("up", mg.m.Up())
}

// Down reverts every applied migration.
func (mg *Migrator) Down() error {
	return ignoreNoChange("down", mg.m.Down())
}

// Version reports the applied version. ok is false on an empty schema.
// A dirty schema, left by a failed migration, is reported as an error.
func (mg *Migrator) Version() (version uint, ok bool, err error) {
	version, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("postgres: schema version: %w", err)
	case dirty:
		return version, true, fmt.Errorf("postgres: schema version %d is dirty", version)
	}
	return version, true, nil
}

// Close releases the source and the database connection.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations brings the schema at dsn up to date and returns its version.
func RunMigrations(dsn string, fsys fs.FS, dir string) (uint, error) {
	mg, err := NewMigrator(dsn, fsys, dir)
	if err != nil {
		return 0, err
	}
	defer mg.Close() //nolint:errcheck // nothing left to do on close failure

	if err := mg.Up(); err != nil {
		return 0, err
	}
	version, _, err := mg.Version()
	return version, err
}

func ignoreNoChange(direction string, err error) error {
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return fmt.Errorf("postgres: migrate %s: %w", direction, err)
}
