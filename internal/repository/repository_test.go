package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/db/dbtest"
	"github.com/ifuapp/ifu/internal/model"
)

var base = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

func newDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return dbtest.New(t)
}

func seedUser(t *testing.T, conn *sqlx.DB, email, name string) *model.User {
	t.Helper()

	user := &model.User{ID: uuid.NewString(), Email: email, CreatedAt: base}
	require.NoError(t, NewUserRepository(conn).Create(user))

	profile := &model.Profile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      name,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, NewProfileRepository(conn).Create(profile))

	return user
}
