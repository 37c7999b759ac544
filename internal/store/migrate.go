package store

import (
	"context"
	"fmt"

	dbtypes "github.com/nitesh/news_api/internal/db"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS topics(
  slug VARCHAR PRIMARY KEY,
  description VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS users(
  username VARCHAR PRIMARY KEY,
  name VARCHAR NOT NULL,
  avatar_url VARCHAR NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS articles(
  article_id SERIAL PRIMARY KEY,
  title VARCHAR NOT NULL,
  topic VARCHAR NOT NULL REFERENCES topics(slug),
  author VARCHAR NOT NULL REFERENCES users(username),
  body VARCHAR NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT NOW(),
  votes INT NOT NULL DEFAULT 0,
  article_img_url VARCHAR NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS comments(
  comment_id SERIAL PRIMARY KEY,
  body VARCHAR NOT NULL,
  article_id INT NOT NULL REFERENCES articles(article_id) ON DELETE CASCADE,
  author VARCHAR NOT NULL REFERENCES users(username),
  votes INT NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_articles_topic ON articles(topic);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS topics(
  slug TEXT PRIMARY KEY,
  description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users(
  username TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  avatar_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS articles(
  article_id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  topic TEXT NOT NULL REFERENCES topics(slug),
  author TEXT NOT NULL REFERENCES users(username),
  body TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  votes INTEGER NOT NULL DEFAULT 0,
  article_img_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS comments(
  comment_id INTEGER PRIMARY KEY AUTOINCREMENT,
  body TEXT NOT NULL,
  article_id INTEGER NOT NULL REFERENCES articles(article_id) ON DELETE CASCADE,
  author TEXT NOT NULL REFERENCES users(username),
  votes INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_articles_topic ON articles(topic);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id);
`

// RunMigrations creates the tables if they do not exist yet. Safe to call
// on every start.
func (s *Store) RunMigrations(ctx context.Context) error {
	schema := postgresSchema
	if s.dialect == dbtypes.SQLite {
		schema = sqliteSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
