package database

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mbolis/quick-forms/log"
	"github.com/pkg/errors"
)

//go:embed migrations
var dbMigrations embed.FS

const migrationsTable = "schema_migrations"

// migrateDB applies every embedded migration not yet recorded in the
// database. The migrator is never closed: closing it closes db.
func migrateDB(db *sql.DB) error {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "migrate.source")
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return errors.Wrap(err, "migrate.driver")
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return errors.Wrap(err, "migrate.init")
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("database schema already up to date")
	case err != nil:
		return errors.Wrap(err, "migrate.up")
	default:
		version, _, _ := migrator.Version()
		log.Infof("database schema migrated to version %d", version)
	}
	return nil
}
