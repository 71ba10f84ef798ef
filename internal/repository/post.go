package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var (
	ErrPostNotFound = apperr.NotFound("post not found")
)

type PostRepository interface {
	Create(post *model.Post) error
	ByID(postID string) (*model.Post, error)
	ByIDs(postIDs []string) (map[string]*model.Post, error)
	// Feed lists other users' posts, newest first.
	Feed(viewerID string) ([]*model.Post, error)
	ByUser(userID string) ([]*model.Post, error)
	SoftDelete(userID, postID string) error

	HasLiked(postID, userID string) (bool, error)
	AddLike(like *model.PostLike) error
	RemoveLike(postID, userID string) error
	Likers(postIDs []string) (map[string][]string, error)

	AddComment(comment *model.PostComment) error
	Comments(postIDs []string) (map[string][]*model.PostComment, error)

	WithTx(tx *sqlx.Tx) PostRepository
}

type postRepository struct {
	db sqlx.Ext
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *sqlx.Tx) PostRepository {
	return &postRepository{db: tx}
}

// Create inserts the post and its hashtags. Run it on a transaction-bound
// repository to make both writes atomic.
func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (id, user_id, text, deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, post.ID, post.UserID, post.Text, post.Deleted, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return err
	}

	for i, tag := range post.Hashtags {
		_, err = r.db.Exec(`INSERT INTO post_hashtags (post_id, tag, position) VALUES ($1, $2, $3)`, post.ID, tag, i)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *postRepository) ByID(postID string) (*model.Post, error) {
	post := &model.Post{}
	err := sqlx.Get(r.db, post, `SELECT * FROM posts WHERE id = $1 AND deleted = FALSE`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.loadHashtags([]*model.Post{post})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ByIDs includes soft-deleted posts; notifications keep pointing at them.
func (r *postRepository) ByIDs(postIDs []string) (map[string]*model.Post, error) {
	byID := make(map[string]*model.Post, len(postIDs))
	if len(postIDs) == 0 {
		return byID, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM posts WHERE id IN (?)`, postIDs)
	if err != nil {
		return nil, err
	}

	var posts []*model.Post
	err = sqlx.Select(r.db, &posts, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *postRepository) Feed(viewerID string) ([]*model.Post, error) {
	posts := []*model.Post{}
	query := `SELECT * FROM posts WHERE deleted = FALSE AND user_id <> $1 ORDER BY created_at DESC`

	err := sqlx.Select(r.db, &posts, query, viewerID)
	if err != nil {
		return nil, err
	}

	return posts, r.loadHashtags(posts)
}

func (r *postRepository) ByUser(userID string) ([]*model.Post, error) {
	posts := []*model.Post{}
	query := `SELECT * FROM posts WHERE deleted = FALSE AND user_id = $1 ORDER BY created_at DESC`

	err := sqlx.Select(r.db, &posts, query, userID)
	if err != nil {
		return nil, err
	}

	return posts, r.loadHashtags(posts)
}

func (r *postRepository) SoftDelete(userID, postID string) error {
	result, err := r.db.Exec(`UPDATE posts SET deleted = TRUE WHERE id = $1 AND user_id = $2 AND deleted = FALSE`, postID, userID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrPostNotFound)
}

func (r *postRepository) loadHashtags(posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[string]*model.Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		p.Hashtags = []string{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`SELECT post_id, tag FROM post_hashtags WHERE post_id IN (?) ORDER BY post_id, position`, ids)
	if err != nil {
		return err
	}

	var rows []struct {
		PostID string `db:"post_id"`
		Tag    string `db:"tag"`
	}
	err = sqlx.Select(r.db, &rows, r.db.Rebind(query), args...)
	if err != nil {
		return err
	}

	for _, row := range rows {
		p := byID[row.PostID]
		p.Hashtags = append(p.Hashtags, row.Tag)
	}
	return nil
}

func (r *postRepository) HasLiked(postID, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowx(`SELECT COUNT(*) FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID).Scan(&count)
	return count > 0, err
}

func (r *postRepository) AddLike(like *model.PostLike) error {
	_, err := r.db.Exec(`INSERT INTO post_likes (id, post_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		like.ID, like.PostID, like.UserID, like.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("post already liked", err)
	}
	return err
}

func (r *postRepository) RemoveLike(postID, userID string) error {
	_, err := r.db.Exec(`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

// Likers maps post IDs to the IDs of users who liked them, oldest like first.
func (r *postRepository) Likers(postIDs []string) (map[string][]string, error) {
	likers := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likers, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM post_likes WHERE post_id IN (?) ORDER BY created_at ASC`, postIDs)
	if err != nil {
		return nil, err
	}

	var likes []*model.PostLike
	err = sqlx.Select(r.db, &likes, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, l := range likes {
		likers[l.PostID] = append(likers[l.PostID], l.UserID)
	}
	return likers, nil
}

func (r *postRepository) AddComment(comment *model.PostComment) error {
	_, err := r.db.Exec(`INSERT INTO post_comments (id, post_id, user_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.UserID, comment.Text, comment.CreatedAt)
	return err
}

// Comments maps post IDs to their comments, oldest first.
func (r *postRepository) Comments(postIDs []string) (map[string][]*model.PostComment, error) {
	comments := make(map[string][]*model.PostComment, len(postIDs))
	if len(postIDs) == 0 {
		return comments, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM post_comments WHERE post_id IN (?) ORDER BY created_at ASC`, postIDs)
	if err != nil {
		return nil, err
	}

	var rows []*model.PostComment
	err = sqlx.Select(r.db, &rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, c := range rows {
		comments[c.PostID] = append(comments[c.PostID], c)
	}
	return comments, nil
}
