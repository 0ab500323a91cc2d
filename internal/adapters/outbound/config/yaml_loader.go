package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/repoprobe/internal/domain"
)

const (
	fileName = ".repoprobe.yaml"
	envFile  = ".env"

	EnvGitLabURL   = "GITLAB_URL"
	EnvGitLabToken = "GITLAB_TOKEN"
)

// YAMLLoader implements domain.ConfigLoader. It reads .repoprobe.yaml and
// fills the GitLab URL and token from the environment or a .env file when
// the YAML leaves them empty.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads configuration rooted at dir.
// Returns DefaultConfig if no file exists.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
		if err := cfg.Validate(); err != nil {
			return domain.Config{}, fmt.Errorf("invalid %s: %w", fileName, err)
		}
	}

	env := dotenv(dir)
	if cfg.GitLabURL == "" {
		cfg.GitLabURL = lookup(env, EnvGitLabURL)
	}
	if cfg.Token == "" {
		cfg.Token = lookup(env, EnvGitLabToken)
	}
	return cfg, nil
}

// dotenv reads dir/.env. A missing or unreadable file yields no values.
func dotenv(dir string) map[string]string {
	env, err := godotenv.Read(filepath.Join(dir, envFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("ignoring %s: %v", envFile, err)
		}
		return nil
	}
	return env
}

// lookup prefers the process environment over .env values.
func lookup(env map[string]string, key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return env[key]
}
