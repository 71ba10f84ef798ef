// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/db"
)

// New returns a migrated SQLite database in t's temp directory. The pool uses
// several connections, so an on-disk file is used rather than :memory:.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Init(db.DriverSQLite, path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close(conn)
	})

	err = db.RunMigrations(conn.DB, db.DriverSQLite)
	require.NoError(t, err)

	return conn
}
