// Package client is a small Go client for the news API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nitesh/news_api/pkg/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("news api: status=%d message=%q", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080". If httpClient is nil, a default with timeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      httpClient,
		logger:  zap.NewNop(),
	}
}

// SetLogger makes the client log every request at debug level.
func (c *Client) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// ArticleQuery holds the optional /api/articles query parameters.
type ArticleQuery struct {
	SortBy string
	Order  string
	Topic  string
}

func (c *Client) Endpoints(ctx context.Context) (map[string]json.RawMessage, error) {
	var out struct {
		Endpoints map[string]json.RawMessage `json:"endpoints"`
	}
	err := c.do(ctx, http.MethodGet, "/api", nil, nil, &out)
	return out.Endpoints, err
}

func (c *Client) Topics(ctx context.Context, sortBy string) ([]models.Topic, error) {
	var out struct {
		Topics []models.Topic `json:"topics"`
	}
	err := c.do(ctx, http.MethodGet, "/api/topics", sortQuery(sortBy), nil, &out)
	return out.Topics, err
}

func (c *Client) Articles(ctx context.Context, q ArticleQuery) ([]models.ArticleSummary, error) {
	params := url.Values{}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Topic != "" {
		params.Set("topic", q.Topic)
	}
	var out struct {
		Articles []models.ArticleSummary `json:"articles"`
	}
	err := c.do(ctx, http.MethodGet, "/api/articles", params, nil, &out)
	return out.Articles, err
}

func (c *Client) Article(ctx context.Context, id int64) (models.Article, error) {
	var out struct {
		Article models.Article `json:"article"`
	}
	err := c.do(ctx, http.MethodGet, articlePath(id), nil, nil, &out)
	return out.Article, err
}

func (c *Client) Vote(ctx context.Context, id, incVotes int64) (models.Article, error) {
	var out struct {
		Article models.Article `json:"article"`
	}
	body := map[string]int64{"inc_votes": incVotes}
	err := c.do(ctx, http.MethodPatch, articlePath(id), nil, body, &out)
	return out.Article, err
}

func (c *Client) Comments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	var out struct {
		Comments []models.Comment `json:"comments"`
	}
	err := c.do(ctx, http.MethodGet, articlePath(articleID)+"/comments", nil, nil, &out)
	return out.Comments, err
}

func (c *Client) PostComment(ctx context.Context, articleID int64, username, body string) (models.Comment, error) {
	var out struct {
		Comment models.Comment `json:"comment"`
	}
	req := map[string]string{"username": username, "body": body}
	err := c.do(ctx, http.MethodPost, articlePath(articleID)+"/comments", nil, req, &out)
	return out.Comment, err
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+strconv.FormatInt(commentID, 10), nil, nil, nil)
}

func (c *Client) Users(ctx context.Context, sortBy string) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users", sortQuery(sortBy), nil, &out)
	return out.Users, err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("news api marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("news api new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	c.logger.Debug("news api request",
		zap.String("method", method),
		zap.String("url", u),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return fmt.Errorf("news api request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("news api read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("news api decode response: %w", err)
	}
	return nil
}

func articlePath(id int64) string {
	return "/api/articles/" + strconv.FormatInt(id, 10)
}

func sortQuery(sortBy string) url.Values {
	if sortBy == "" {
		return nil
	}
	return url.Values{"sort_by": {sortBy}}
}
