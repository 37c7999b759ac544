package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtypes "github.com/nitesh/news_api/internal/db"
	"github.com/nitesh/news_api/pkg/models"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidSort = errors.New("invalid sort")
)

// Sort columns callers may ask for, mapped to the SQL placed in ORDER BY.
// Only these strings are ever interpolated into a query.
var (
	topicSortColumns = map[string]string{
		"slug":        "slug",
		"description": "description",
	}
	articleSortColumns = map[string]string{
		"author":          "a.author",
		"title":           "a.title",
		"article_id":      "a.article_id",
		"topic":           "a.topic",
		"created_at":      "a.created_at",
		"votes":           "a.votes",
		"article_img_url": "a.article_img_url",
		"comment_count":   "comment_count",
	}
	userSortColumns = map[string]string{
		"username": "username",
		"name":     "name",
	}
	sortOrders = map[string]string{
		"asc":  "ASC",
		"desc": "DESC",
	}
)

// ArticleListOpts filters and orders ListArticles. Empty Topic means all topics.
type ArticleListOpts struct {
	SortBy string
	Order  string
	Topic  string
}

// Validate rejects sort columns and orders outside the allow-lists.
func (o ArticleListOpts) Validate() error {
	if _, ok := articleSortColumns[o.SortBy]; !ok {
		return fmt.Errorf("%w: articles by %q", ErrInvalidSort, o.SortBy)
	}
	if _, ok := sortOrders[strings.ToLower(o.Order)]; !ok {
		return fmt.Errorf("%w: order %q", ErrInvalidSort, o.Order)
	}
	return nil
}

type Store struct {
	db      *sqlx.DB
	dialect dbtypes.Dialect
}

func New(db *sqlx.DB, dialect dbtypes.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListTopics(ctx context.Context, sortBy string) ([]models.Topic, error) {
	col, ok := topicSortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: topics by %q", ErrInvalidSort, sortBy)
	}
	rows := []models.Topic{}
	query := fmt.Sprintf(`SELECT slug, description FROM topics ORDER BY %s ASC, slug ASC`, col)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return rows, nil
}

func (s *Store) TopicExists(ctx context.Context, slug string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM topics WHERE slug = ?`, slug)
}

const articleColumns = `a.article_id, a.author, a.title, a.topic, a.created_at, a.votes, a.article_img_url`

const commentCount = `(SELECT COUNT(*) FROM comments c WHERE c.article_id = a.article_id) AS comment_count`

func (s *Store) ListArticles(ctx context.Context, opts ArticleListOpts) ([]models.ArticleSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	col := articleSortColumns[opts.SortBy]
	dir := sortOrders[strings.ToLower(opts.Order)]

	var (
		where string
		args  []interface{}
	)
	if opts.Topic != "" {
		where = "WHERE a.topic = ?"
		args = append(args, opts.Topic)
	}

	query := fmt.Sprintf(`
SELECT %s, COUNT(c.comment_id) AS comment_count
FROM articles a
LEFT JOIN comments c ON c.article_id = a.article_id
%s
GROUP BY a.article_id
ORDER BY %s %s, a.article_id %s
`, articleColumns, where, col, dir, dir)

	rows := []models.ArticleSummary{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return rows, nil
}

func (s *Store) GetArticle(ctx context.Context, id int64) (models.Article, error) {
	query := `
SELECT ` + articleColumns + `, a.body, ` + commentCount + `
FROM articles a
WHERE a.article_id = ?
`
	var a models.Article
	err := s.db.GetContext(ctx, &a, s.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("get article id=%d: %w", id, err)
	}
	return a, nil
}

func (s *Store) ArticleExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM articles WHERE article_id = ?`, id)
}

// IncrementVotes adds delta to the article's votes in a single statement so
// concurrent increments are never lost. Votes are not clamped.
func (s *Store) IncrementVotes(ctx context.Context, id, delta int64) (models.Article, error) {
	query := `
UPDATE articles SET votes = votes + ?
WHERE article_id = ?
RETURNING article_id, author, title, topic, created_at, votes, article_img_url, body
`
	var a models.Article
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), delta, id).StructScan(&a)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("increment votes id=%d: %w", id, err)
	}

	countQuery := `SELECT COUNT(*) FROM comments WHERE article_id = ?`
	if err := s.db.GetContext(ctx, &a.CommentCount, s.db.Rebind(countQuery), id); err != nil {
		return models.Article{}, fmt.Errorf("count comments article_id=%d: %w", id, err)
	}
	return a, nil
}

func (s *Store) ListComments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	query := `
SELECT comment_id, article_id, author, body, votes, created_at
FROM comments
WHERE article_id = ?
ORDER BY created_at DESC, comment_id DESC
`
	rows := []models.Comment{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), articleID); err != nil {
		return nil, fmt.Errorf("list comments article_id=%d: %w", articleID, err)
	}
	return rows, nil
}

// CreateComment inserts c and fills in the generated comment_id. Votes start
// at zero; CreatedAt defaults to now when unset. A missing article or author
// yields ErrNotFound.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = dbtypes.Now()
	}
	c.Votes = 0

	query := `
INSERT INTO comments (article_id, author, body, votes, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING comment_id, article_id, author, body, votes, created_at
`
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query),
		c.ArticleID,
		c.Author,
		c.Body,
		c.Votes,
		c.CreatedAt,
	).StructScan(c)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("insert comment article_id=%d author=%s: %w", c.ArticleID, c.Author, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert comment article_id=%d: %w", c.ArticleID, err)
	}
	return nil
}

// DeleteComment removes a comment and returns the deleted row.
func (s *Store) DeleteComment(ctx context.Context, id int64) (models.Comment, error) {
	query := `
DELETE FROM comments WHERE comment_id = ?
RETURNING comment_id, article_id, author, body, votes, created_at
`
	var c models.Comment
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), id).StructScan(&c)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("delete comment id=%d: %w", id, err)
	}
	return c, nil
}

func (s *Store) ListUsers(ctx context.Context, sortBy string) ([]models.User, error) {
	col, ok := userSortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: users by %q", ErrInvalidSort, sortBy)
	}
	rows := []models.User{}
	query := fmt.Sprintf(`SELECT username, name, avatar_url FROM users ORDER BY %s ASC, username ASC`, col)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return rows, nil
}

func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM users WHERE username = ?`, username)
}

func (s *Store) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, s.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}
