// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the application configuration. Credentials for the completion
// providers are read separately by the rotation package.
type Config struct {
	ServerAddr string
	LogLevel   string

	// DataDir holds the rotation state and the cron history ledger.
	DataDir string
	// PostsDir is the local mirror of published posts, used for topic
	// exclusion. Drafts and rejected drafts live underneath it.
	PostsDir    string
	DraftsDir   string
	RejectedDir string

	// BaseURL is the public site root used to build post URLs.
	BaseURL string

	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string

	LinkedInToken     string
	LinkedInPersonURN string

	AdminPassword      string
	JWTSecret          string
	JWTExpirationHours int
}

// Load reads configuration from environment variables. Values that are only
// needed by a specific component (GitHub, LinkedIn, admin auth) are validated
// by that component's constructor, not here.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		PostsDir:          getEnv("POSTS_DIR", "./posts"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:       os.Getenv("GITHUB_OWNER"),
		GitHubRepo:        os.Getenv("GITHUB_REPO"),
		GitHubBranch:      getEnv("GITHUB_BRANCH", "main"),
		LinkedInToken:     os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		LinkedInPersonURN: os.Getenv("LINKEDIN_PERSON_ID"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	cfg.DraftsDir = getEnv("DRAFTS_DIR", filepath.Join(cfg.PostsDir, "auto-drafts"))
	cfg.RejectedDir = getEnv("REJECTED_DIR", filepath.Join(cfg.PostsDir, "rejected"))

	expiration := getEnv("JWT_EXPIRATION_HOURS", "24")
	hours, err := strconv.Atoi(expiration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", expiration, err)
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got %d", hours)
	}
	cfg.JWTExpirationHours = hours

	return cfg, nil
}

// RotationStatePath returns the location of the provider rotation state file.
func (c *Config) RotationStatePath() string {
	return filepath.Join(c.DataDir, "model-rotation.json")
}

// HistoryPath returns the location of the cron history ledger.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "cron-history.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
