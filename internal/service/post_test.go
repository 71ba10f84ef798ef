package service

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/repository"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testImage(t *testing.T, name string, content []byte) *Image {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	header := form.File["image"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return &Image{File: file, Header: header}
}

type socialFixture struct {
	*fixture
	posts         *PostService
	notifications *NotificationService
	profiles      *ProfileService
}

func newSocialFixture(t *testing.T) *socialFixture {
	t.Helper()

	f := newFixture(t)
	postRepo := repository.NewPostRepository(f.db)
	profileRepo := repository.NewProfileRepository(f.db)
	notificationRepo := repository.NewNotificationRepository(f.db)

	return &socialFixture{
		fixture:       f,
		posts:         NewPostService(f.db, postRepo, profileRepo, notificationRepo, f.files, f.clock),
		notifications: NewNotificationService(notificationRepo, postRepo, profileRepo, f.files),
		profiles:      NewProfileService(profileRepo, f.clock),
	}
}

func TestPostCreateExtractsHashtags(t *testing.T) {
	f := newSocialFixture(t)
	ben := f.signup(t, "ben@example.com", "Ben")

	_, err := f.posts.Create(t.Context(), ben, "  ", nil, nil)
	assert.ErrorIs(t, err, ErrPostTextRequired)

	post, err := f.posts.Create(t.Context(), ben, "Sunrise #Yoga at https://example.com/#anchor", []string{"#yoga", "Stretch"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"yoga", "stretch"}, post.Hashtags)
}

func TestPostCreateStoresImage(t *testing.T) {
	f := newSocialFixture(t)
	ben := f.signup(t, "ben@example.com", "Ben")
	ana := f.signup(t, "ana@example.com", "Ana")

	_, err := f.posts.Create(t.Context(), ben, "Not an image", nil, testImage(t, "notes.png", []byte("plain text")))
	assert.Equal(t, 400, apperr.Status(err))
	assert.Equal(t, 0, f.storage.Len())

	post, err := f.posts.Create(t.Context(), ben, "Trail view", nil, testImage(t, "trail.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, 1, f.storage.Len())

	feed, err := f.posts.Feed(ana)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Contains(t, feed[0].Image, "http://files.test/public/post_images/")
}

func TestFeedRanksInterestMatchesFirst(t *testing.T) {
	f := newSocialFixture(t)
	ana := f.signup(t, "ana@example.com", "Ana")
	ben := f.signup(t, "ben@example.com", "Ben")

	_, err := f.profiles.Update(ana, ProfileUpdate{Interests: []string{"#Running", "running", " "}})
	require.NoError(t, err)

	run, err := f.posts.Create(t.Context(), ben, "5k done #run", nil, nil)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	cake, err := f.posts.Create(t.Context(), ben, "Baked bread", []string{"baking"}, nil)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.posts.Create(t.Context(), ana, "My own post #running", nil, nil)
	require.NoError(t, err)

	feed, err := f.posts.Feed(ana)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, run.ID, feed[0].ID)
	assert.True(t, *feed[0].MatchesInterest)
	assert.Equal(t, cake.ID, feed[1].ID)
	assert.False(t, *feed[1].MatchesInterest)
	assert.Equal(t, "Ben", feed[0].User.Name)
	assert.Equal(t, []string{}, feed[0].Likes)

	// Without interests the feed is newest first.
	feed, err = f.posts.Feed(ben)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, *feed[0].MatchesInterest)
}

func TestToggleLikeNotifiesAuthorOnce(t *testing.T) {
	f := newSocialFixture(t)
	ana := f.signup(t, "ana@example.com", "Ana")
	ben := f.signup(t, "ben@example.com", "Ben")

	post, err := f.posts.Create(t.Context(), ben, "Hello", nil, nil)
	require.NoError(t, err)

	result, err := f.posts.ToggleLike(ben, post.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	count, err := f.notifications.UnreadCount(ben)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "liking your own post is silent")

	result, err = f.posts.ToggleLike(ana, post.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.ElementsMatch(t, []string{ana, ben}, result.Likes)

	recent, err := f.notifications.Recent(ben)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Ana liked your post", recent[0].Text)
	assert.Equal(t, "Hello", recent[0].Post.Text)
	assert.Equal(t, "Ana", recent[0].Sender.Name)
	assert.False(t, recent[0].Read)

	result, err = f.posts.ToggleLike(ana, post.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, []string{ben}, result.Likes)

	recent, err = f.notifications.Recent(ben)
	require.NoError(t, err)
	assert.Empty(t, recent)

	_, err = f.posts.ToggleLike(ana, "missing")
	assert.Equal(t, 404, apperr.Status(err))
}

func TestCommentAndNotificationLifecycle(t *testing.T) {
	f := newSocialFixture(t)
	ana := f.signup(t, "ana@example.com", "Ana")
	ben := f.signup(t, "ben@example.com", "Ben")

	post, err := f.posts.Create(t.Context(), ben, "Hello", nil, nil)
	require.NoError(t, err)

	_, err = f.posts.Comment(ana, post.ID, "   ")
	assert.ErrorIs(t, err, ErrCommentTextRequired)

	_, err = f.posts.Comment(ana, post.ID, "Nice one")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	comments, err := f.posts.Comment(ben, post.ID, "Thanks")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Nice one", comments[0].Text)
	assert.Equal(t, "Ana", comments[0].User.Name)

	recent, err := f.notifications.Recent(ben)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Ana commented on your post", recent[0].Text)

	err = f.notifications.MarkRead(ana, recent[0].ID)
	assert.Equal(t, 404, apperr.Status(err), "only the recipient can mark it read")

	require.NoError(t, f.notifications.MarkRead(ben, recent[0].ID))
	count, err := f.notifications.UnreadCount(ben)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, f.posts.Delete(ben, post.ID))
	recent, err = f.notifications.Recent(ben)
	require.NoError(t, err)
	require.Len(t, recent, 1, "notifications outlive soft-deleted posts")
	assert.Equal(t, "Hello", recent[0].Post.Text)

	require.NoError(t, f.notifications.Delete(ben, recent[0].ID))
	recent, err = f.notifications.Recent(ben)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
