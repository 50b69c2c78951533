package database

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mbolis/quick-forms/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	db, err := Open(path)
	require.NoError(t, err)

	for _, table := range []string{"user", "token", "form", "form_data", "item"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
	require.NoError(t, db.Close())

	// already up to date
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO item (name, created_at) VALUES ('x', CURRENT_TIMESTAMP)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO item (name, created_at) VALUES ('x', CURRENT_TIMESTAMP)")
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(nil))
}

func TestVerifyAffected(t *testing.T) {
	assert.ErrorIs(t, VerifyAffected(sqlmock.NewResult(0, 0), "test"), model.ErrNotFound)
	assert.NoError(t, VerifyAffected(sqlmock.NewResult(0, 1), "test"))
	assert.Error(t, VerifyAffected(sqlmock.NewErrorResult(assert.AnError), "test"))
}
