package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codegraph/backend/internal/filegraph"
	"codegraph/backend/internal/httpapi"
	"codegraph/backend/internal/relay"
	"codegraph/backend/internal/vector"
	"codegraph/backend/pkg/config"
	"codegraph/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting codegraph API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to the vector index
	ctx := context.Background()
	index, err := vector.NewQdrant(ctx, cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
	if err != nil {
		log.Fatal("Failed to connect to vector index", zap.Error(err))
	}
	defer index.Close()

	// Wire the graph pipeline and relays
	fetcher := filegraph.NewFetcher(index, cfg.QdrantCollection)
	resolver := filegraph.NewResolver(index)
	assembler := filegraph.NewAssembler(nil)
	graphService := filegraph.NewService(fetcher, resolver, assembler, cfg.NeighborCount, cfg.ResolveConcurrency)

	chatRelay := relay.NewChatRelay(cfg.LavaBaseURL, cfg.LavaForwardToken, cfg.ModelID)
	commitRelay := relay.NewCommitRelay(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(cfg, graphService, chatRelay, commitRelay)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("collection", cfg.QdrantCollection),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
