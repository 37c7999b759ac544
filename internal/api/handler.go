package api

import (
	_ "embed"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nitesh/news_api/internal/apperr"
	"github.com/nitesh/news_api/internal/service"
)

//go:embed endpoints.json
var endpointsJSON []byte

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Endpoints: GET /api
func (h *Handler) Endpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"endpoints": json.RawMessage(endpointsJSON)})
}

// Topics: GET /api/topics?sort_by=slug
func (h *Handler) Topics(c *gin.Context) {
	topics, err := h.svc.Topics(c.Request.Context(), c.Query("sort_by"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Articles: GET /api/articles?sort_by=created_at&order=desc&topic=cats
func (h *Handler) Articles(c *gin.Context) {
	articles, err := h.svc.Articles(c.Request.Context(), c.Query("sort_by"), c.Query("order"), c.Query("topic"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Article: GET /api/articles/:article_id
func (h *Handler) Article(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	article, err := h.svc.Article(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

type voteRequest struct {
	IncVotes *float64 `json:"inc_votes" binding:"required"`
}

// Vote: PATCH /api/articles/:article_id
// Body: {"inc_votes": 1}
func (h *Handler) Vote(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || !isWholeNumber(*req.IncVotes) {
		_ = c.Error(apperr.NewBadRequest(service.MsgIncVotes))
		return
	}
	article, err := h.svc.IncrementVotes(c.Request.Context(), id, int64(*req.IncVotes))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Comments: GET /api/articles/:article_id/comments
func (h *Handler) Comments(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	comments, err := h.svc.Comments(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type newCommentRequest struct {
	Username string `json:"username" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// PostComment: POST /api/articles/:article_id/comments
// Body: {"username": "...", "body": "..."}
func (h *Handler) PostComment(c *gin.Context) {
	var req newCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.NewBadRequest(service.MsgMissingFields))
		return
	}
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), id, req.Username, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment: DELETE /api/comments/:comment_id
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveComment(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users: GET /api/users?sort_by=username
func (h *Handler) Users(c *gin.Context) {
	users, err := h.svc.Users(c.Request.Context(), c.Query("sort_by"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Health: GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses a numeric path parameter, recording a bad request when it
// is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		_ = c.Error(apperr.NewBadRequest(service.MsgBadRequest))
		return 0, false
	}
	return id, true
}

// isWholeNumber accepts integers a float64 can hold exactly.
func isWholeNumber(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) <= 1<<53
}
