package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nitesh/news_api/internal/apperr"
	"github.com/nitesh/news_api/internal/events"
	"github.com/nitesh/news_api/internal/store"
	"github.com/nitesh/news_api/pkg/models"
)

// fakeStore records the arguments it was called with and answers from
// in-memory data.
type fakeStore struct {
	topics   map[string]bool
	users    map[string]bool
	articles map[int64]*models.Article
	comments map[int64]models.Comment
	nextID   int64

	lastTopicSort string
	lastUserSort  string
	lastOpts      store.ArticleListOpts
	listCalls     int
	failWith      error
	insertErr     error
}

func newFakeStore() *fakeStore {
	a := &models.Article{ArticleSummary: models.ArticleSummary{ArticleID: 1, Votes: 10}, Body: "body"}
	return &fakeStore{
		topics:   map[string]bool{"cats": true},
		users:    map[string]bool{"butter_bridge": true},
		articles: map[int64]*models.Article{1: a},
		comments: map[int64]models.Comment{7: {CommentID: 7, ArticleID: 1}},
		nextID:   100,
	}
}

func (f *fakeStore) ListTopics(_ context.Context, sortBy string) ([]models.Topic, error) {
	f.lastTopicSort = sortBy
	if sortBy != "slug" && sortBy != "description" {
		return nil, store.ErrInvalidSort
	}
	return []models.Topic{{Slug: "cats"}}, f.failWith
}

func (f *fakeStore) TopicExists(_ context.Context, slug string) (bool, error) {
	return f.topics[slug], nil
}

func (f *fakeStore) ListArticles(_ context.Context, opts store.ArticleListOpts) ([]models.ArticleSummary, error) {
	f.listCalls++
	f.lastOpts = opts
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return []models.ArticleSummary{f.articles[1].ArticleSummary}, nil
}

func (f *fakeStore) GetArticle(_ context.Context, id int64) (models.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return models.Article{}, store.ErrNotFound
	}
	return *a, nil
}

func (f *fakeStore) ArticleExists(_ context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.articles[id]
	return ok, nil
}

func (f *fakeStore) IncrementVotes(_ context.Context, id, delta int64) (models.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return models.Article{}, store.ErrNotFound
	}
	a.Votes += delta
	return *a, nil
}

func (f *fakeStore) ListComments(_ context.Context, articleID int64) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateComment(_ context.Context, c *models.Comment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	c.CommentID = f.nextID
	f.comments[c.CommentID] = *c
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id int64) (models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return models.Comment{}, store.ErrNotFound
	}
	delete(f.comments, id)
	return c, nil
}

func (f *fakeStore) ListUsers(_ context.Context, sortBy string) ([]models.User, error) {
	f.lastUserSort = sortBy
	if sortBy != "username" && sortBy != "name" {
		return nil, store.ErrInvalidSort
	}
	return []models.User{{Username: "butter_bridge"}}, nil
}

func (f *fakeStore) UserExists(_ context.Context, username string) (bool, error) {
	return f.users[username], nil
}

func (f *fakeStore) Ping(context.Context) error { return f.failWith }

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func expectKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	if e.Kind != kind || e.Message != msg {
		t.Fatalf("expected %v %q, got %v %q", kind, msg, e.Kind, e.Message)
	}
}

func TestTopicsDefaultsAndValidation(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)
	ctx := context.Background()

	if _, err := svc.Topics(ctx, ""); err != nil {
		t.Fatalf("topics: %v", err)
	}
	if fs.lastTopicSort != "slug" {
		t.Fatalf("expected default sort slug, got %q", fs.lastTopicSort)
	}

	_, err := svc.Topics(ctx, "nonsense")
	expectKind(t, err, apperr.BadRequest, MsgBadRequest)
}

func TestArticlesDefaultsAndOrder(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)
	ctx := context.Background()

	if _, err := svc.Articles(ctx, "", "", ""); err != nil {
		t.Fatalf("articles: %v", err)
	}
	if fs.lastOpts.SortBy != "created_at" || fs.lastOpts.Order != "desc" {
		t.Fatalf("unexpected defaults: %+v", fs.lastOpts)
	}

	if _, err := svc.Articles(ctx, "votes", "ASC", ""); err != nil {
		t.Fatalf("articles: %v", err)
	}
	if fs.lastOpts.Order != "asc" {
		t.Fatalf("expected order lowercased, got %q", fs.lastOpts.Order)
	}

	_, err := svc.Articles(ctx, "votes", "sideways", "")
	expectKind(t, err, apperr.BadRequest, MsgBadRequest)
}

func TestArticlesUnknownTopic(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)

	_, err := svc.Articles(context.Background(), "", "", "dogs")
	expectKind(t, err, apperr.NotFound, MsgTopicNotFound)
	if fs.listCalls != 0 {
		t.Fatalf("expected no list query for unknown topic, got %d", fs.listCalls)
	}
}

func TestArticlesBadSortBeatsUnknownTopic(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Articles(context.Background(), "body", "", "dogs")
	expectKind(t, err, apperr.BadRequest, MsgBadRequest)
}

func TestArticleNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Article(context.Background(), 999)
	expectKind(t, err, apperr.NotFound, MsgArticleNotFound)
}

func TestCommentsForMissingArticle(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Comments(context.Background(), 42)
	expectKind(t, err, apperr.NotFound, MsgArticleNotFound)
}

func TestAddComment(t *testing.T) {
	fs := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewService(fs, pub, nil)
	ctx := events.WithRequestID(context.Background(), "req-1")

	c, err := svc.AddComment(ctx, 1, "butter_bridge", "This is a new comment.")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c.CommentID == 0 || c.ArticleID != 1 || c.Author != "butter_bridge" {
		t.Fatalf("unexpected comment: %+v", c)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.CommentCreated || pub.events[0].RequestID != "req-1" {
		t.Fatalf("unexpected events: %+v", pub.events)
	}

	_, err = svc.AddComment(ctx, 999, "butter_bridge", "x")
	expectKind(t, err, apperr.NotFound, MsgArticleNotFound)

	_, err = svc.AddComment(ctx, 1, "ghost", "x")
	expectKind(t, err, apperr.NotFound, MsgUserNotFound)

	if len(pub.events) != 1 {
		t.Fatalf("failed writes must not publish, got %d events", len(pub.events))
	}
}

func TestAddCommentArticleRemovedBeforeInsert(t *testing.T) {
	fs := newFakeStore()
	fs.insertErr = fmt.Errorf("insert comment: %w", store.ErrNotFound)
	pub := &recordingPublisher{}
	svc := NewService(fs, pub, nil)

	_, err := svc.AddComment(context.Background(), 1, "butter_bridge", "x")
	expectKind(t, err, apperr.NotFound, MsgArticleNotFound)
	if len(pub.events) != 0 {
		t.Fatalf("failed insert must not publish, got %d events", len(pub.events))
	}
}

func TestIncrementVotes(t *testing.T) {
	fs := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewService(fs, pub, nil)
	ctx := context.Background()

	a, err := svc.IncrementVotes(ctx, 1, -1001)
	if err != nil {
		t.Fatalf("increment votes: %v", err)
	}
	if a.Votes != -991 {
		t.Fatalf("expected -991 votes, got %d", a.Votes)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.ArticleVoted {
		t.Fatalf("unexpected events: %+v", pub.events)
	}

	_, err = svc.IncrementVotes(ctx, 999, 1)
	expectKind(t, err, apperr.NotFound, MsgArticleNotFound)
}

func TestRemoveComment(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(newFakeStore(), pub, nil)
	ctx := context.Background()

	if err := svc.RemoveComment(ctx, 7); err != nil {
		t.Fatalf("remove comment: %v", err)
	}
	err := svc.RemoveComment(ctx, 7)
	expectKind(t, err, apperr.NotFound, MsgCommentNotFound)

	if len(pub.events) != 1 || pub.events[0].Type != events.CommentDeleted {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewService(newFakeStore(), pub, nil)

	if err := svc.RemoveComment(context.Background(), 7); err != nil {
		t.Fatalf("expected success despite publish failure, got %v", err)
	}
}

func TestUsersDefaultsAndValidation(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, nil, nil)
	ctx := context.Background()

	if _, err := svc.Users(ctx, ""); err != nil {
		t.Fatalf("users: %v", err)
	}
	if fs.lastUserSort != "username" {
		t.Fatalf("expected default sort username, got %q", fs.lastUserSort)
	}
	_, err := svc.Users(ctx, "avatar_url")
	expectKind(t, err, apperr.BadRequest, MsgBadRequest)
}

func TestStoreFailuresStayInternal(t *testing.T) {
	fs := newFakeStore()
	fs.failWith = errors.New("connection refused")
	svc := NewService(fs, nil, nil)

	_, err := svc.Comments(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.Internal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
