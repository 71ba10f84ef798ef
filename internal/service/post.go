package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/feed"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
)

var (
	ErrPostTextRequired    = apperr.Validation("post text is required")
	ErrCommentTextRequired = apperr.Validation("comment text is required")
)

type PostService struct {
	db               *sqlx.DB
	postRepo         repository.PostRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
	fileService      *FileService
	clock            clock.Clock
}

func NewPostService(
	conn *sqlx.DB,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
	fileService *FileService,
	clk clock.Clock,
) *PostService {
	return &PostService{
		db:               conn,
		postRepo:         postRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		fileService:      fileService,
		clock:            clk,
	}
}

// Image is an optional multipart upload attached to a post or achievement.
type Image struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// LikeResult is the state of a post's likes after a toggle.
type LikeResult struct {
	Liked bool     `json:"liked"`
	Likes []string `json:"likes"`
}

// Create stores a post with the hashtags found in its text plus the extra
// ones supplied by the client.
func (s *PostService) Create(ctx context.Context, userID, text string, hashtags []string, image *Image) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrPostTextRequired
	}

	now := s.clock.Now()
	post := &model.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Hashtags:  feed.ExtractHashtags(text, hashtags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if image != nil {
		_, err := s.fileService.Upload(ctx, userID, model.OwnerTypePost, post.ID, model.FileTypePostImage, image.File, image.Header)
		if err != nil {
			return nil, err
		}
	}

	err := db.WithTx(s.db, func(tx *sqlx.Tx) error {
		return s.postRepo.WithTx(tx).Create(post)
	})
	if err != nil {
		if image != nil {
			cleanupErr := s.fileService.DeleteOwnerFiles(ctx, model.OwnerTypePost, post.ID)
			if cleanupErr != nil {
				slog.Error("failed to clean up post image", "error", cleanupErr, "post_id", post.ID)
			}
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "user_id", userID, "post_id", post.ID, "hashtags", len(post.Hashtags))
	return post, nil
}

// Feed returns other users' posts, those matching the viewer's interests
// first.
func (s *PostService) Feed(viewerID string) ([]model.PostView, error) {
	interests, err := s.profileRepo.Interests(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}

	posts, err := s.postRepo.Feed(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	ranked := feed.Rank(interests, posts)

	views, err := s.views(lo.Map(ranked, func(r feed.Ranked, _ int) *model.Post { return r.Post }))
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].MatchesInterest = lo.ToPtr(ranked[i].MatchesInterest)
	}
	return views, nil
}

func (s *PostService) ByUser(userID string) ([]model.PostView, error) {
	posts, err := s.postRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return s.views(posts)
}

func (s *PostService) Delete(userID, postID string) error {
	err := s.postRepo.SoftDelete(userID, postID)
	if err != nil {
		return err
	}

	slog.Info("post deleted", "user_id", userID, "post_id", postID)
	return nil
}

// ToggleLike likes or unlikes a post. The like and the author's notification
// change together.
func (s *PostService) ToggleLike(userID, postID string) (*LikeResult, error) {
	result := &LikeResult{}

	err := db.WithTx(s.db, func(tx *sqlx.Tx) error {
		posts := s.postRepo.WithTx(tx)
		notifications := s.notificationRepo.WithTx(tx)

		post, err := posts.ByID(postID)
		if err != nil {
			return err
		}

		liked, err := posts.HasLiked(postID, userID)
		if err != nil {
			return err
		}

		if liked {
			err = posts.RemoveLike(postID, userID)
			if err != nil {
				return err
			}
			err = notifications.DeleteFor(userID, post.UserID, postID, model.NotificationTypeLike)
			if err != nil {
				return err
			}
		} else {
			now := s.clock.Now()
			err = posts.AddLike(&model.PostLike{
				ID:        uuid.NewString(),
				PostID:    postID,
				UserID:    userID,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
			err = s.notify(tx, userID, post, model.NotificationTypeLike, "liked your post", now)
			if err != nil {
				return err
			}
		}

		likers, err := posts.Likers([]string{postID})
		if err != nil {
			return err
		}

		result.Liked = !liked
		result.Likes = likers[postID]
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Likes == nil {
		result.Likes = []string{}
	}
	return result, nil
}

// Comment adds a comment and returns all comments on the post, oldest first.
func (s *PostService) Comment(userID, postID, text string) ([]model.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	err := db.WithTx(s.db, func(tx *sqlx.Tx) error {
		posts := s.postRepo.WithTx(tx)

		post, err := posts.ByID(postID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		err = posts.AddComment(&model.PostComment{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    userID,
			Text:      text,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		return s.notify(tx, userID, post, model.NotificationTypeComment, "commented on your post", now)
	})
	if err != nil {
		return nil, err
	}

	comments, err := s.postRepo.Comments([]string{postID})
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	authors, err := s.authors(lo.Map(comments[postID], func(c *model.PostComment, _ int) string { return c.UserID }))
	if err != nil {
		return nil, err
	}

	return commentViews(comments[postID], authors), nil
}

// notify records a notification for the post author unless they acted on
// their own post.
func (s *PostService) notify(tx *sqlx.Tx, senderID string, post *model.Post, kind, action string, now time.Time) error {
	if post.UserID == senderID {
		return nil
	}

	authors, err := s.profileRepo.WithTx(tx).Authors([]string{senderID})
	if err != nil {
		return err
	}

	name := authors[senderID].Name
	if name == "" {
		name = "Someone"
	}

	return s.notificationRepo.WithTx(tx).Create(&model.Notification{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		Type:        kind,
		Text:        name + " " + action,
		CreatedAt:   now,
	})
}

// views assembles likes, comments, authors and images for posts, keeping
// their order.
func (s *PostService) views(posts []*model.Post) ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := lo.Map(posts, func(p *model.Post, _ int) string { return p.ID })

	likers, err := s.postRepo.Likers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	comments, err := s.postRepo.Comments(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	images, err := s.fileService.URLs(model.OwnerTypePost, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load post images: %w", err)
	}

	userIDs := lo.Map(posts, func(p *model.Post, _ int) string { return p.UserID })
	for _, cs := range comments {
		userIDs = append(userIDs, lo.Map(cs, func(c *model.PostComment, _ int) string { return c.UserID })...)
	}

	authors, err := s.authors(userIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		likes := likers[p.ID]
		if likes == nil {
			likes = []string{}
		}

		views = append(views, model.PostView{
			ID:        p.ID,
			Text:      p.Text,
			Image:     images[p.ID],
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Hashtags:  p.Hashtags,
			Likes:     likes,
			Comments:  commentViews(comments[p.ID], authors),
			User:      authors[p.UserID],
		})
	}

	return views, nil
}

// authors loads names and avatar URLs for the distinct user IDs.
func (s *PostService) authors(userIDs []string) (map[string]model.Author, error) {
	userIDs = lo.Uniq(userIDs)

	authors, err := s.profileRepo.Authors(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	avatars, err := s.fileService.URLs(model.OwnerTypeUser, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load avatars: %w", err)
	}

	for id, a := range authors {
		a.ProfileImage = avatars[id]
		authors[id] = a
	}
	return authors, nil
}

func commentViews(comments []*model.PostComment, authors map[string]model.Author) []model.CommentView {
	return lo.Map(comments, func(c *model.PostComment, _ int) model.CommentView {
		return model.CommentView{
			ID:        c.ID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			User:      authors[c.UserID],
		}
	})
}
