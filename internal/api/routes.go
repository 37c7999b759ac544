package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		RequestLogger(logger),
		Recovery(logger),
		ErrorHandler(logger),
	)
	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("", h.Endpoints)
		api.GET("/topics", h.Topics)
		api.GET("/articles", h.Articles)
		api.GET("/articles/:article_id", h.Article)
		api.PATCH("/articles/:article_id", h.Vote)
		api.GET("/articles/:article_id/comments", h.Comments)
		api.POST("/articles/:article_id/comments", h.PostComment)
		api.DELETE("/comments/:comment_id", h.DeleteComment)
		api.GET("/users", h.Users)
	}

	r.NoRoute(NotFound)
}
