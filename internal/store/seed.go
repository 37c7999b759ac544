package store

import (
	"context"
	"fmt"
	"time"

	dbtypes "github.com/nitesh/news_api/internal/db"
	"github.com/nitesh/news_api/pkg/models"
)

// SeedData is a complete dataset. Articles and comments are inserted in
// slice order, so after a reset the first article gets article_id 1.
type SeedData struct {
	Topics   []models.Topic
	Users    []models.User
	Articles []models.Article
	Comments []models.Comment
}

// Seed wipes every table and loads data in one transaction.
func (s *Store) Seed(ctx context.Context, data SeedData) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	reset := []string{`TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`}
	if s.dialect == dbtypes.SQLite {
		reset = []string{
			`DELETE FROM comments`,
			`DELETE FROM articles`,
			`DELETE FROM users`,
			`DELETE FROM topics`,
			`DELETE FROM sqlite_sequence WHERE name IN ('articles', 'comments')`,
		}
	}
	for _, stmt := range reset {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset: %w", err)
		}
	}

	for _, t := range data.Topics {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO topics (slug, description) VALUES (?, ?)`),
			t.Slug, t.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert topic slug=%s: %w", t.Slug, err)
		}
	}
	for _, u := range data.Users {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO users (username, name, avatar_url) VALUES (?, ?, ?)`),
			u.Username, u.Name, u.AvatarURL); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert user username=%s: %w", u.Username, err)
		}
	}
	for _, a := range data.Articles {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
VALUES (?, ?, ?, ?, ?, ?, ?)`),
			a.Title, a.Topic, a.Author, a.Body, a.CreatedAt, a.Votes, a.ArticleImgURL); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert article title=%q: %w", a.Title, err)
		}
	}
	for _, c := range data.Comments {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO comments (body, article_id, author, votes, created_at)
VALUES (?, ?, ?, ?, ?)`),
			c.Body, c.ArticleID, c.Author, c.Votes, c.CreatedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert comment article_id=%d: %w", c.ArticleID, err)
		}
	}

	return tx.Commit()
}

func ts(s string) dbtypes.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return dbtypes.Timestamp{Time: t.UTC()}
}

const defaultImg = "https://images.pexels.com/photos/158651/news-newsletter-newspaper-information-158651.jpeg?w=700&h=700"

func article(title, topic, author, body, created string, votes int64) models.Article {
	return models.Article{
		ArticleSummary: models.ArticleSummary{
			Title:         title,
			Topic:         topic,
			Author:        author,
			CreatedAt:     ts(created),
			Votes:         votes,
			ArticleImgURL: defaultImg,
		},
		Body: body,
	}
}

func comment(articleID int64, author, body, created string, votes int64) models.Comment {
	return models.Comment{ArticleID: articleID, Author: author, Body: body, CreatedAt: ts(created), Votes: votes}
}

// Fixture is the small dataset used by tests and local development.
//
// Article 1 has three comments, article 2 has none, and topic "paper" has no
// articles.
func Fixture() SeedData {
	return SeedData{
		Topics: []models.Topic{
			{Slug: "mitch", Description: "The man, the Mitch, the legend"},
			{Slug: "cats", Description: "Not dogs"},
			{Slug: "paper", Description: "what books are made of"},
		},
		Users: []models.User{
			{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://www.healthytherapies.com/wp-content/uploads/2016/06/Lime3.jpg"},
			{Username: "icellusedkars", Name: "sam", AvatarURL: "https://avatars2.githubusercontent.com/u/24604688?s=460&v=4"},
			{Username: "rogersop", Name: "paul", AvatarURL: "https://avatars2.githubusercontent.com/u/24394918?s=400&v=4"},
			{Username: "lurker", Name: "do_nothing", AvatarURL: "https://www.golenbock.com/wp-content/uploads/2015/01/placeholder-user.png"},
		},
		Articles: []models.Article{
			article("Living in the shadow of a great man", "mitch", "butter_bridge",
				"I find this existence challenging", "2020-07-09T20:11:00Z", 100),
			article("Sony Vaio; or, The Laptop", "mitch", "icellusedkars",
				"Call me Mitchell. Some years ago I thought I would buy a laptop.", "2020-10-16T05:03:00Z", 0),
			article("Eight pug gifs that remind me of mitch", "mitch", "icellusedkars",
				"some gifs", "2020-11-03T09:12:00Z", 0),
			article("Student SUES Mitch!", "mitch", "rogersop",
				"We all love Mitch and his wonderful, unique typing style.", "2020-05-06T01:14:00Z", 0),
			article("UNCOVERED: catspiracy to bring down democracy", "cats", "rogersop",
				"Bastet walks amongst us, and the cats are taking arms!", "2020-08-03T13:14:00Z", 0),
			article("A", "mitch", "icellusedkars",
				"Delicious tin of cat food", "2020-10-18T01:00:00Z", 0),
		},
		Comments: []models.Comment{
			comment(1, "butter_bridge", "Oh, I've got compassion running out of my ears.", "2020-04-06T12:17:00Z", 16),
			comment(1, "butter_bridge", "The beautiful thing about treasure is that it exists.", "2020-10-31T03:03:00Z", 14),
			comment(1, "icellusedkars", "Replacing the quiet elegance of the dark suit and tie with the casual indifference of these muted earth tones is a form of fashion suicide.", "2020-03-01T01:13:00Z", 100),
			comment(3, "icellusedkars", "Ambidextrous marsupial", "2020-09-19T23:10:00Z", 0),
			comment(3, "rogersop", "git push origin master", "2020-06-20T07:24:00Z", 0),
			comment(5, "butter_bridge", "What do you see? I have no idea where this will lead us.", "2020-06-09T05:00:00Z", 0),
		},
	}
}
