package database

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

// IsUniqueViolation reports whether err comes from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// VerifyAffected turns a statement that touched no rows into model.ErrNotFound.
func VerifyAffected(res sql.Result, code string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, code)
	}
	if n < 1 {
		return model.ErrNotFound
	}
	return nil
}
