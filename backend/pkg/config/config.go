package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port           string
	Env            string
	AllowedOrigins []string

	// Shared secret expected in the Authorization header
	APIToken string

	// Qdrant
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	// Similarity graph
	NeighborCount      int // neighbors kept per file
	ResolveConcurrency int // parallel neighbor queries per request

	// Chat relay
	LavaBaseURL      string
	LavaForwardToken string
	ModelID          string

	// GitHub relay
	GitHubToken string
	GitHubOwner string
	GitHubRepo  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "")),
		APIToken:           getEnv("API_TOKEN", ""),
		QdrantHost:         getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:         getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "repo_files_main"),
		NeighborCount:      getEnvInt("NEIGHBOR_COUNT", 3),
		ResolveConcurrency: getEnvInt("RESOLVE_CONCURRENCY", 8),
		LavaBaseURL:        getEnv("LAVA_BASE_URL", ""),
		LavaForwardToken:   getEnv("LAVA_FORWARD_TOKEN", ""),
		ModelID:            getEnv("MODEL_ID", "gpt-4o-mini"),
		GitHubToken:        getEnv("GITHUB_TOKEN", ""),
		GitHubOwner:        getEnv("GITHUB_OWNER", ""),
		GitHubRepo:         getEnv("GITHUB_REPO", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.QdrantHost == "" {
		return fmt.Errorf("QDRANT_HOST is required")
	}
	if c.QdrantCollection == "" {
		return fmt.Errorf("QDRANT_COLLECTION is required")
	}
	if c.NeighborCount < 1 {
		return fmt.Errorf("NEIGHBOR_COUNT must be at least 1")
	}
	if c.ResolveConcurrency < 1 {
		return fmt.Errorf("RESOLVE_CONCURRENCY must be at least 1")
	}
	// Relay credentials are optional; the relay endpoints fail at call
	// time when their upstream is not configured
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
