package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/app"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/config"
	"github.com/ifuapp/ifu/internal/db/dbtest"
	"github.com/ifuapp/ifu/internal/middleware"
	"github.com/ifuapp/ifu/internal/storage"
)

const breathingActivity = `---
key: box-breathing
title: Box Breathing
type: breathing
category: calm, focus
duration: 5
order: 1
---

Breathe in for **four** counts.
`

// stepClock advances one second per reading so rows get distinct timestamps.
func stepClock(start time.Time) clock.Clock {
	var mu sync.Mutex
	now := start
	return clock.Func(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	})
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *sqlx.DB
}

func newTestServer(t *testing.T, authLimit int) *testServer {
	t.Helper()

	content := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(content, "activities"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "activities", "box-breathing.md"), []byte(breathingActivity), 0o644))

	cfg := &config.Config{
		AppName:            "ifu",
		AppEnv:             "development",
		AppURL:             "http://localhost:8090",
		ContentPath:        content,
		CORSAllowedOrigins: []string{"*"},
		Location:           time.UTC,
		JWTSecret:          "test-secret",
		JWTExpiry:          24 * time.Hour,
		OTPExpiry:          10 * time.Minute,
		CleanupSchedule:    "@hourly",
	}

	conn := dbtest.New(t)
	a, err := app.Build(cfg, conn, storage.NewMemoryStorage("http://files.test"), stepClock(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	a.AuthRateLimiter = middleware.NewRateLimiter(authLimit, time.Minute)

	return &testServer{t: t, handler: SetupRoutes(a), db: conn}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) post(token, text string, hashtags []string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(s.t, form.WriteField("text", text))
	tags, err := json.Marshal(hashtags)
	require.NoError(s.t, err)
	require.NoError(s.t, form.WriteField("hashtags", string(tags)))
	require.NoError(s.t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signup(email, name string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/auth/request-otp", "", map[string]string{"email": email})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var code string
	require.NoError(s.t, s.db.Get(&code, `SELECT code FROM verification_codes WHERE email = $1`, email))

	rec = s.do(http.MethodPost, "/api/auth/verify-otp", "", map[string]string{"email": email, "code": code})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "correct-horse",
		"zip_code": "10001",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Profile struct {
				Name string `json:"name"`
			} `json:"profile"`
		} `json:"user"`
	}
	decodeBody(s.t, rec, &resp)
	require.NotEmpty(s.t, resp.Token)
	assert.Equal(s.t, email, resp.User.Email)
	assert.Equal(s.t, name, resp.User.Profile.Name)

	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 100)

	for _, path := range []string{"/api/dailygoals", "/api/posts/feed", "/api/auth/me", "/api/notifications"} {
		rec := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String(), path)

		rec = s.do(http.MethodGet, path, "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodPost, "/api/auth/check-email", "", map[string]string{"email": "ana@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "signup without a verified code")

	token := s.signup("ana@example.com", "Ana")

	rec = s.do(http.MethodPost, "/api/auth/check-email", "", map[string]string{"email": "ana@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email   string `json:"email"`
		Profile struct {
			ZipCode string `json:"zip_code"`
		} `json:"profile"`
	}
	decodeBody(t, rec, &me)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "10001", me.Profile.ZipCode)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &login)
	assert.NotEmpty(t, login.Token)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	body := map[string]string{"email": "ana@example.com", "password": "whatever-pass"}
	for range 2 {
		rec := s.do(http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestDailyGoals(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.signup("ana@example.com", "Ana")

	rec := s.do(http.MethodPost, "/api/dailygoals", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/dailygoals", token, map[string]string{"text": "Drink water"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var goal struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	}
	decodeBody(t, rec, &goal)
	assert.False(t, goal.Completed)

	rec = s.do(http.MethodPatch, "/api/dailygoals/"+goal.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &goal)
	assert.True(t, goal.Completed)

	rec = s.do(http.MethodGet, "/api/dailygoals/completed/count", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"completedCount":1}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/dailygoals/weekly/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var week []struct {
		Date         string `json:"date"`
		TotalGoals   int    `json:"totalGoals"`
		AllCompleted bool   `json:"allCompleted"`
	}
	decodeBody(t, rec, &week)
	require.Len(t, week, 7)
	assert.Equal(t, "2025-03-09", week[0].Date)
	assert.Equal(t, "2025-03-12", week[3].Date)
	assert.Equal(t, 1, week[3].TotalGoals)
	assert.True(t, week[3].AllCompleted)

	rec = s.do(http.MethodGet, "/api/dailygoals/weekly/status?week_start=03/09/2025", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	other := s.signup("ben@example.com", "Ben")
	rec = s.do(http.MethodPatch, "/api/dailygoals/"+goal.ID+"/toggle", other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeeklyGoalFeedback(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.signup("ana@example.com", "Ana")

	rec := s.do(http.MethodPost, "/api/weekly-goals", token, map[string]any{"text": "Run 10k", "progress": 20})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var goal struct {
		ID        string `json:"id"`
		Progress  int    `json:"progress"`
		Completed bool   `json:"completed"`
	}
	decodeBody(t, rec, &goal)

	rec = s.do(http.MethodPatch, "/api/weekly-goals/"+goal.ID, token, map[string]any{"progress": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/weekly-goals/"+goal.ID, token, map[string]any{"progress": 100, "feedback": "Done early"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &goal)
	assert.Equal(t, 100, goal.Progress)
	assert.True(t, goal.Completed)

	rec = s.do(http.MethodGet, "/api/weekly-goals/"+goal.ID+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Progress int    `json:"progress"`
		Feedback string `json:"feedback"`
	}
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Progress)
	assert.Equal(t, "Done early", entries[0].Feedback)
}

func TestFeedRankingLikesAndNotifications(t *testing.T) {
	s := newTestServer(t, 100)
	ana := s.signup("ana@example.com", "Ana")
	ben := s.signup("ben@example.com", "Ben")

	rec := s.do(http.MethodPut, "/api/auth/profile", ana, map[string]any{"interests": []string{"Yoga"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.post(ben, "Morning flow #yogalife", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var yoga struct {
		ID       string   `json:"id"`
		Hashtags []string `json:"hashtags"`
	}
	decodeBody(t, rec, &yoga)
	assert.Equal(t, []string{"yogalife"}, yoga.Hashtags)

	rec = s.post(ben, "Long run today", []string{"running"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.post(ben, "   ", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/posts/feed", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []struct {
		ID              string `json:"_id"`
		MatchesInterest *bool  `json:"matchesInterest"`
		User            struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	decodeBody(t, rec, &feed)
	require.Len(t, feed, 2)
	assert.Equal(t, yoga.ID, feed[0].ID, "interest match ranks first despite being older")
	require.NotNil(t, feed[0].MatchesInterest)
	assert.True(t, *feed[0].MatchesInterest)
	require.NotNil(t, feed[1].MatchesInterest)
	assert.False(t, *feed[1].MatchesInterest)
	assert.Equal(t, "Ben", feed[0].User.Name)

	rec = s.do(http.MethodGet, "/api/posts/feed", ben, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "own posts are not in the feed")

	rec = s.do(http.MethodPut, "/api/posts/"+yoga.ID+"/like", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var like struct {
		Liked bool     `json:"liked"`
		Likes []string `json:"likes"`
	}
	decodeBody(t, rec, &like)
	assert.True(t, like.Liked)
	assert.Len(t, like.Likes, 1)

	rec = s.do(http.MethodGet, "/api/notifications/unread-count", ben, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/posts/"+yoga.ID+"/like", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &like)
	assert.False(t, like.Liked)
	assert.Empty(t, like.Likes)

	rec = s.do(http.MethodGet, "/api/notifications/unread-count", ben, nil)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String(), "unlike removes the notification")

	rec = s.do(http.MethodPost, "/api/posts/"+yoga.ID+"/comment", ana, map[string]string{"text": "Love this"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/notifications/read-all", ben, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/notifications/unread-count", ben, nil)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/api/posts/"+yoga.ID, ana, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "only the author can delete")

	rec = s.do(http.MethodDelete, "/api/posts/"+yoga.ID, ben, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/posts/feed", ana, nil)
	decodeBody(t, rec, &feed)
	assert.Len(t, feed, 1)
}

func TestActivityLibrary(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.signup("ana@example.com", "Ana")

	rec := s.do(http.MethodGet, "/api/five-min-activities/library/filter?category=focus", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var activities []struct {
		Key         string `json:"activity_key"`
		HTMLContent string `json:"html_content"`
	}
	decodeBody(t, rec, &activities)
	require.Len(t, activities, 1)
	assert.Equal(t, "box-breathing", activities[0].Key)
	assert.Contains(t, activities[0].HTMLContent, "<strong>four</strong>")

	rec = s.do(http.MethodGet, "/api/five-min-activities/library/filter?type=journaling", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/five-min-activities/library/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
