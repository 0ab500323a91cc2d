package domain

import (
	"fmt"
	"time"
)

// Config holds run configuration loaded from .repoprobe.yaml, the
// environment and command-line flags.
type Config struct {
	GitLabURL        string   `yaml:"gitlab_url"        json:"gitlab_url,omitempty"`
	Token            string   `yaml:"token"             json:"-"`
	RateLimit        float64  `yaml:"rate_limit"        json:"rate_limit"`
	MaxDepth         int      `yaml:"max_depth"         json:"max_depth"`
	MaxRepos         int      `yaml:"max_repos"         json:"max_repos,omitempty"`
	Filter           string   `yaml:"filter"            json:"filter,omitempty"`
	Output           string   `yaml:"output"            json:"output,omitempty"`
	MaxRetries       int      `yaml:"max_retries"       json:"max_retries"`
	FallbackBranches []string `yaml:"fallback_branches" json:"fallback_branches,omitempty"`
	CacheSize        int      `yaml:"cache_size"        json:"cache_size"`
}

const (
	DefaultRateLimit  = 5.0
	DefaultMaxDepth   = 2
	DefaultMaxRetries = 3
	DefaultCacheSize  = 256
	maxDepthLimit     = 10
)

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		RateLimit:        DefaultRateLimit,
		MaxDepth:         DefaultMaxDepth,
		MaxRetries:       DefaultMaxRetries,
		FallbackBranches: []string{"main", "master"},
		CacheSize:        DefaultCacheSize,
	}
}

// DefaultOutput names the CSV report after the current time.
func DefaultOutput(now time.Time) string {
	return fmt.Sprintf("gitlab-analysis-%s.csv", now.Format("2006-01-02-150405"))
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. rate limit must be positive
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be > 0 (got %g)", c.RateLimit)
	}

	// 2. depth must stay shallow
	if c.MaxDepth < 0 || c.MaxDepth > maxDepthLimit {
		return fmt.Errorf("max_depth must be between 0 and %d (got %d)", maxDepthLimit, c.MaxDepth)
	}

	// 3. retries
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}

	// 4. repository cap, 0 means unlimited
	if c.MaxRepos < 0 {
		return fmt.Errorf("max_repos must be >= 0 (got %d)", c.MaxRepos)
	}

	// 5. cache
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be > 0 (got %d)", c.CacheSize)
	}

	// 6. fallback branches must be named
	for i, b := range c.FallbackBranches {
		if b == "" {
			return fmt.Errorf("fallback_branches[%d] must not be empty", i)
		}
	}

	return nil
}

// RequireRemote checks the fields needed to talk to GitLab.
func (c Config) RequireRemote() error {
	if c.GitLabURL == "" {
		return fmt.Errorf("GitLab URL must be provided via --gitlab-url, gitlab_url or GITLAB_URL")
	}
	if c.Token == "" {
		return fmt.Errorf("GitLab token is required. Provide via --token, token or GITLAB_TOKEN")
	}
	return nil
}
