package model

import (
	"time"
)

type Post struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Text      string    `db:"text"`
	Deleted   bool      `db:"deleted"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Loaded separately, stored in post_hashtags without the leading '#'
	Hashtags []string `db:"-"`
}

type PostLike struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type PostComment struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

// Author is the public face of a user attached to posts, comments and
// notifications.
type Author struct {
	ID           string `db:"id" json:"_id"`
	Name         string `db:"name" json:"name"`
	ProfileImage string `db:"-" json:"profileImage,omitempty"`
}

type CommentView struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	User      Author    `json:"user"`
}

// PostView is a post as rendered in the feed and on profile pages.
type PostView struct {
	ID              string        `json:"_id"`
	Text            string        `json:"text"`
	Image           string        `json:"image,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Hashtags        []string      `json:"hashtags"`
	Likes           []string      `json:"likes"`
	Comments        []CommentView `json:"comments"`
	User            Author        `json:"user"`
	MatchesInterest *bool         `json:"matchesInterest,omitempty"`
}
