package models

import (
	dbtypes "github.com/nitesh/news_api/internal/db"
)

// Topic is a subject tag articles are filed under.
type Topic struct {
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
}

// User is an author of articles and comments.
type User struct {
	Username  string `db:"username" json:"username"`
	Name      string `db:"name" json:"name"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}

// ArticleSummary is the list representation of an article: everything but the body.
type ArticleSummary struct {
	ArticleID     int64             `db:"article_id" json:"article_id"`
	Author        string            `db:"author" json:"author"`
	Title         string            `db:"title" json:"title"`
	Topic         string            `db:"topic" json:"topic"`
	CreatedAt     dbtypes.Timestamp `db:"created_at" json:"created_at"`
	Votes         int64             `db:"votes" json:"votes"`
	ArticleImgURL string            `db:"article_img_url" json:"article_img_url"`

	// CommentCount is computed by the query, never stored.
	CommentCount int64 `db:"comment_count" json:"comment_count"`
}

// Article is a full article record.
type Article struct {
	ArticleSummary
	Body string `db:"body" json:"body"`
}

// Comment is a reply to an article.
type Comment struct {
	CommentID int64             `db:"comment_id" json:"comment_id"`
	ArticleID int64             `db:"article_id" json:"article_id"`
	Author    string            `db:"author" json:"author"`
	Body      string            `db:"body" json:"body"`
	Votes     int64             `db:"votes" json:"votes"`
	CreatedAt dbtypes.Timestamp `db:"created_at" json:"created_at"`
}
