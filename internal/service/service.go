package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nitesh/news_api/internal/apperr"
	"github.com/nitesh/news_api/internal/events"
	"github.com/nitesh/news_api/internal/store"
	"github.com/nitesh/news_api/pkg/models"
)

// Messages clients see. Shared with the handlers so every endpoint words
// the same failure the same way.
const (
	MsgBadRequest      = "Bad Request!"
	MsgMissingFields   = "Bad Request! Missing required fields."
	MsgIncVotes        = "Bad Request! inc_votes must be a number."
	MsgArticleNotFound = "Article not found"
	MsgCommentNotFound = "Comment not found"
	MsgTopicNotFound   = "Topic not found"
	MsgUserNotFound    = "User not found"
)

const (
	defaultTopicSort   = "slug"
	defaultArticleSort = "created_at"
	defaultOrder       = "desc"
	defaultUserSort    = "username"
)

type NewsStore interface {
	ListTopics(ctx context.Context, sortBy string) ([]models.Topic, error)
	TopicExists(ctx context.Context, slug string) (bool, error)
	ListArticles(ctx context.Context, opts store.ArticleListOpts) ([]models.ArticleSummary, error)
	GetArticle(ctx context.Context, id int64) (models.Article, error)
	ArticleExists(ctx context.Context, id int64) (bool, error)
	IncrementVotes(ctx context.Context, id, delta int64) (models.Article, error)
	ListComments(ctx context.Context, articleID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id int64) (models.Comment, error)
	ListUsers(ctx context.Context, sortBy string) ([]models.User, error)
	UserExists(ctx context.Context, username string) (bool, error)
	Ping(ctx context.Context) error
}

type Service struct {
	repo   NewsStore
	pub    events.Publisher
	logger *zap.Logger
}

func NewService(repo NewsStore, pub events.Publisher, logger *zap.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, pub: pub, logger: logger}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) Topics(ctx context.Context, sortBy string) ([]models.Topic, error) {
	if sortBy == "" {
		sortBy = defaultTopicSort
	}
	topics, err := s.repo.ListTopics(ctx, sortBy)
	return topics, translate(err, "")
}

// Articles lists articles without their body. order is case-insensitive;
// an unknown order is rejected rather than defaulted.
func (s *Service) Articles(ctx context.Context, sortBy, order, topic string) ([]models.ArticleSummary, error) {
	if sortBy == "" {
		sortBy = defaultArticleSort
	}
	order = strings.ToLower(order)
	if order == "" {
		order = defaultOrder
	}

	opts := store.ArticleListOpts{SortBy: sortBy, Order: order, Topic: topic}
	if err := opts.Validate(); err != nil {
		return nil, translate(err, "")
	}
	if topic != "" {
		if err := s.requireTopic(ctx, topic); err != nil {
			return nil, err
		}
	}
	articles, err := s.repo.ListArticles(ctx, opts)
	return articles, translate(err, "")
}

func (s *Service) Article(ctx context.Context, id int64) (models.Article, error) {
	a, err := s.repo.GetArticle(ctx, id)
	return a, translate(err, MsgArticleNotFound)
}

func (s *Service) Comments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, articleID)
	return comments, translate(err, "")
}

// AddComment checks the article and author exist, then inserts. The checks
// and the insert are separate statements.
func (s *Service) AddComment(ctx context.Context, articleID int64, username, body string) (models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return models.Comment{}, err
	}
	ok, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return models.Comment{}, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return models.Comment{}, apperr.NewNotFound(MsgUserNotFound)
	}

	c := models.Comment{ArticleID: articleID, Author: username, Body: body}
	if err := s.repo.CreateComment(ctx, &c); err != nil {
		// the article went away between the check and the insert
		return models.Comment{}, translate(err, MsgArticleNotFound)
	}
	s.publish(ctx, events.CommentCreated, c)
	return c, nil
}

func (s *Service) IncrementVotes(ctx context.Context, articleID, delta int64) (models.Article, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return models.Article{}, err
	}
	a, err := s.repo.IncrementVotes(ctx, articleID, delta)
	if err != nil {
		return models.Article{}, translate(err, MsgArticleNotFound)
	}
	s.publish(ctx, events.ArticleVoted, map[string]int64{
		"article_id": a.ArticleID,
		"inc_votes":  delta,
		"votes":      a.Votes,
	})
	return a, nil
}

func (s *Service) RemoveComment(ctx context.Context, commentID int64) error {
	c, err := s.repo.DeleteComment(ctx, commentID)
	if err != nil {
		return translate(err, MsgCommentNotFound)
	}
	s.publish(ctx, events.CommentDeleted, map[string]int64{
		"comment_id": c.CommentID,
		"article_id": c.ArticleID,
	})
	return nil
}

func (s *Service) Users(ctx context.Context, sortBy string) ([]models.User, error) {
	if sortBy == "" {
		sortBy = defaultUserSort
	}
	users, err := s.repo.ListUsers(ctx, sortBy)
	return users, translate(err, "")
}

func (s *Service) requireArticle(ctx context.Context, id int64) error {
	ok, err := s.repo.ArticleExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check article: %w", err)
	}
	if !ok {
		return apperr.NewNotFound(MsgArticleNotFound)
	}
	return nil
}

func (s *Service) requireTopic(ctx context.Context, slug string) error {
	ok, err := s.repo.TopicExists(ctx, slug)
	if err != nil {
		return fmt.Errorf("check topic: %w", err)
	}
	if !ok {
		return apperr.NewNotFound(MsgTopicNotFound)
	}
	return nil
}

// publish never fails the request; a lost event is only logged.
func (s *Service) publish(ctx context.Context, typ string, data interface{}) {
	if err := s.pub.Publish(ctx, events.New(ctx, typ, data)); err != nil {
		s.logger.Warn("event not published",
			zap.String("type", typ),
			zap.String("request_id", events.RequestID(ctx)),
			zap.Error(err),
		)
	}
}

// translate turns store sentinels into client-facing errors.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrInvalidSort):
		return apperr.NewBadRequest(MsgBadRequest)
	case errors.Is(err, store.ErrNotFound) && notFound != "":
		return apperr.NewNotFound(notFound)
	default:
		return err
	}
}
