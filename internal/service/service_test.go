package service

import (
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/db/dbtest"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/storage"
)

// Wednesday 2025-03-12 09:00 UTC.
var start = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db      *sqlx.DB
	clock   *testClock
	storage *storage.MemoryStorage
	auth    *AuthService
	files   *FileService
	users   repository.UserRepository
	codes   repository.VerificationCodeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := dbtest.New(t)
	clk := &testClock{now: start}
	store := storage.NewMemoryStorage("http://files.test")

	users := repository.NewUserRepository(conn)
	profiles := repository.NewProfileRepository(conn)
	codes := repository.NewVerificationCodeRepository(conn)
	emails := NewEmailService("", "noreply@example.com", "http://localhost", "ifu", true)

	return &fixture{
		db:      conn,
		clock:   clk,
		storage: store,
		auth:    NewAuthService(conn, users, profiles, codes, emails, clk, "secret", 24*time.Hour, 10*time.Minute),
		files:   NewFileService(repository.NewFileRepository(conn), store, clk),
		users:   users,
		codes:   codes,
	}
}

func (f *fixture) code(t *testing.T, email string) string {
	t.Helper()

	var code string
	require.NoError(t, f.db.Get(&code, `SELECT code FROM verification_codes WHERE email = $1`, email))
	return code
}

// signup runs the OTP flow and returns the new user's ID.
func (f *fixture) signup(t *testing.T, email, name string) string {
	t.Helper()

	require.NoError(t, f.auth.RequestOTP(t.Context(), email))
	require.NoError(t, f.auth.VerifyOTP(email, f.code(t, email)))

	account, err := f.auth.Signup(t.Context(), SignupInput{Name: name, Email: email, Password: "correct-horse"})
	require.NoError(t, err)
	return account.User.ID
}
