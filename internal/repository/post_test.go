package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

func seedPost(t *testing.T, repo PostRepository, userID string, at time.Time, tags ...string) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      "hello",
		CreatedAt: at,
		UpdatedAt: at,
		Hashtags:  tags,
	}
	require.NoError(t, repo.Create(p))
	return p
}

func TestPostRepositoryFeed(t *testing.T) {
	conn := newDB(t)
	repo := NewPostRepository(conn)
	ada := seedUser(t, conn, "ada@example.com", "Ada")
	bob := seedUser(t, conn, "bob@example.com", "Bob")

	older := seedPost(t, repo, bob.ID, base, "music", "travel")
	newer := seedPost(t, repo, bob.ID, base.Add(time.Hour), "cooking")
	seedPost(t, repo, ada.ID, base.Add(2*time.Hour), "music")
	deleted := seedPost(t, repo, bob.ID, base.Add(3*time.Hour))
	require.NoError(t, repo.SoftDelete(bob.ID, deleted.ID))

	feed, err := repo.Feed(ada.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, older.ID, feed[1].ID)
	assert.Equal(t, []string{"music", "travel"}, feed[1].Hashtags)

	mine, err := repo.ByUser(bob.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = repo.ByID(deleted.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, repo.SoftDelete(ada.ID, older.ID), ErrPostNotFound)
}

func TestPostRepositoryLikesAndComments(t *testing.T) {
	conn := newDB(t)
	repo := NewPostRepository(conn)
	ada := seedUser(t, conn, "ada@example.com", "Ada")
	bob := seedUser(t, conn, "bob@example.com", "Bob")
	post := seedPost(t, repo, bob.ID, base)

	like := &model.PostLike{ID: uuid.NewString(), PostID: post.ID, UserID: ada.ID, CreatedAt: base}
	require.NoError(t, repo.AddLike(like))

	liked, err := repo.HasLiked(post.ID, ada.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	dup := &model.PostLike{ID: uuid.NewString(), PostID: post.ID, UserID: ada.ID, CreatedAt: base}
	assert.ErrorIs(t, repo.AddLike(dup), apperr.ErrConflict)

	likers, err := repo.Likers([]string{post.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{ada.ID}, likers[post.ID])

	require.NoError(t, repo.RemoveLike(post.ID, ada.ID))
	liked, err = repo.HasLiked(post.ID, ada.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	for i, text := range []string{"first", "second"} {
		require.NoError(t, repo.AddComment(&model.PostComment{
			ID:        uuid.NewString(),
			PostID:    post.ID,
			UserID:    ada.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	comments, err := repo.Comments([]string{post.ID})
	require.NoError(t, err)
	require.Len(t, comments[post.ID], 2)
	assert.Equal(t, "first", comments[post.ID][0].Text)
	assert.Equal(t, "second", comments[post.ID][1].Text)
}

func TestNotificationRepository(t *testing.T) {
	conn := newDB(t)
	posts := NewPostRepository(conn)
	repo := NewNotificationRepository(conn)
	ada := seedUser(t, conn, "ada@example.com", "Ada")
	bob := seedUser(t, conn, "bob@example.com", "Bob")
	post := seedPost(t, posts, bob.ID, base)

	mk := func(kind string, at time.Time) *model.Notification {
		n := &model.Notification{
			ID:          uuid.NewString(),
			SenderID:    ada.ID,
			RecipientID: bob.ID,
			PostID:      post.ID,
			Type:        kind,
			Text:        "Ada did something",
			CreatedAt:   at,
		}
		require.NoError(t, repo.Create(n))
		return n
	}

	like := mk(model.NotificationTypeLike, base)
	comment := mk(model.NotificationTypeComment, base.Add(time.Minute))

	recent, err := repo.Recent(bob.ID, 50)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, comment.ID, recent[0].ID)

	count, err := repo.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkRead(bob.ID, comment.ID))
	assert.ErrorIs(t, repo.MarkRead(ada.ID, like.ID), ErrNotificationNotFound)

	count, err = repo.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteFor(ada.ID, bob.ID, post.ID, model.NotificationTypeLike))
	recent, err = repo.Recent(bob.ID, 50)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	require.NoError(t, repo.MarkAllRead(bob.ID))
	count, err = repo.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Delete(bob.ID, comment.ID))
	assert.ErrorIs(t, repo.Delete(bob.ID, comment.ID), ErrNotificationNotFound)
}
