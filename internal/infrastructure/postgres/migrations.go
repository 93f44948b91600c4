// Package postgres implements the domain ports on PostgreSQL via pgx.
package postgres

import (
	"embed"

	pgpkg "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

// Migrations holds the schema in golang-migrate layout.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files.
const MigrationsDir = "migrations"

// Migrate applies every pending migration to the database at dsn and
// returns the resulting schema version.
func Migrate(dsn string) (uint, error) {
	return pgpkg.RunMigrations(dsn, Migrations, MigrationsDir)
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pgpkg.Querier
	pgpkg.TxBeginner
}
