package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/db"
)

// isUniqueViolation works for both SQLite and PostgreSQL error texts.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// forUpdate locks selected rows until the surrounding transaction ends.
// SQLite serializes writers already and has no row locks.
func forUpdate(q sqlx.Ext) string {
	if q.DriverName() == db.DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func rowsAffected(result interface{ RowsAffected() (int64, error) }, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
