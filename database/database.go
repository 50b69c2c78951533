package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mbolis/quick-forms/log"
	"github.com/pkg/errors"
)

// connection options applied to every pooled connection
const dsnOptions = "_foreign_keys=on&_busy_timeout=5000"

// Open opens the SQLite database at url and brings its schema up to date.
func Open(url string) (db *sql.DB, err error) {
	dsn := url + "?" + dsnOptions
	if strings.Contains(url, "?") {
		dsn = url + "&" + dsnOptions
	}

	db, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "db.open")
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db.ping")
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db.migrate")
	}

	log.Debugf("database %s ready", url)
	return db, nil
}
