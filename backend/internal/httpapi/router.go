package httpapi

import (
	"context"
	"net/http"

	"codegraph/backend/internal/filegraph"
	"codegraph/backend/internal/relay"
	"codegraph/backend/pkg/config"
	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GraphBuilder computes the similarity graph for one request.
type GraphBuilder interface {
	BuildGraph(ctx context.Context) (filegraph.Graph, error)
}

// ChatForwarder relays a chat-completion request upstream.
type ChatForwarder interface {
	Forward(ctx context.Context, query, systemContext string) (string, error)
}

// CommitLister relays a commit-history lookup to the source-control host.
type CommitLister interface {
	ListCommits(ctx context.Context, path string) ([]relay.Commit, error)
}

// NewRouter builds the gin engine with all routes and middleware wired.
// Everything under /api requires the shared bearer secret.
func NewRouter(cfg *config.Config, graphs GraphBuilder, chat ChatForwarder, commits CommitLister) *gin.Engine {
	log := logger.Get()

	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(BearerAuth(cfg.APIToken))
	{
		api.POST("/graph", buildGraphHandler(graphs, log))
		api.POST("/chat", chatHandler(chat, log))
		api.GET("/github/commits", commitsHandler(commits, log))
	}

	return router
}

func buildGraphHandler(graphs GraphBuilder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		graph, err := graphs.BuildGraph(c.Request.Context())
		if err != nil {
			log.Error("Failed to build similarity graph", zap.Error(err))
			if apperrors.IsIndexError(err) {
				c.JSON(http.StatusBadGateway, gin.H{"error": "vector index unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build graph"})
			return
		}

		c.JSON(http.StatusOK, graph)
	}
}

func chatHandler(chat ChatForwarder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Query   string `json:"query" binding:"required"`
			Context string `json:"context"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		content, err := chat.Forward(c.Request.Context(), req.Query, req.Context)
		if err != nil {
			log.Error("Chat relay failed", zap.Error(err))
			if apperrors.IsErrorType(err, apperrors.ErrorTypeConfig) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat relay is not configured"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reach chat upstream"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}

func commitsHandler(commits CommitLister, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Query("path")

		history, err := commits.ListCommits(c.Request.Context(), path)
		if err != nil {
			log.Error("Commit relay failed", zap.Error(err))
			if apperrors.IsErrorType(err, apperrors.ErrorTypeConfig) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github relay is not configured"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reach GitHub"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"commits": history})
	}
}
