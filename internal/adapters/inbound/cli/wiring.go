package cli

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/cache"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/config"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/gitlab"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/gitlocal"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/localfs"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/throttle"
	"github.com/abdidvp/repoprobe/internal/application"
	"github.com/abdidvp/repoprobe/internal/domain"
)

// settings are the command-line overrides shared by scan and inspect.
type settings struct {
	gitlabURL  string
	token      string
	rateLimit  float64
	maxDepth   int
	maxRetries int
}

func (s *settings) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.gitlabURL, "gitlab-url", "", "GitLab instance URL (or GITLAB_URL)")
	cmd.Flags().StringVar(&s.token, "token", "", "GitLab personal access token (or GITLAB_TOKEN)")
	cmd.Flags().Float64Var(&s.rateLimit, "rate-limit", domain.DefaultRateLimit, "Maximum API requests per second")
	cmd.Flags().IntVar(&s.maxDepth, "max-depth", domain.DefaultMaxDepth, "Deepest directory level searched")
	cmd.Flags().IntVar(&s.maxRetries, "max-retries", domain.DefaultMaxRetries, "Retries after a rate-limited API call")
}

// loadConfig reads .repoprobe.yaml and the environment from the working
// directory, then applies the flags the user set explicitly.
func (s *settings) loadConfig(cmd *cobra.Command) (domain.Config, error) {
	cfg, err := config.New().Load(".")
	if err != nil {
		return domain.Config{}, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("gitlab-url") {
		cfg.GitLabURL = s.gitlabURL
	}
	if flags.Changed("token") {
		cfg.Token = s.token
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = s.rateLimit
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = s.maxDepth
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = s.maxRetries
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func newGitLabHost(cfg domain.Config, perf *domain.PerfTracker, clk clock.Clock) (*gitlab.Client, error) {
	if err := cfg.RequireRemote(); err != nil {
		return nil, err
	}
	return gitlab.New(gitlab.Options{
		BaseURL: cfg.GitLabURL,
		Token:   cfg.Token,
		Limiter: throttle.NewLimiter(cfg.RateLimit, clk),
		Retry:   throttle.NewRetryPolicy(cfg.MaxRetries, gitlab.Classify, clk),
		Perf:    perf,
		Clock:   clk,
	})
}

// newLocalHost serves a git clone through go-git and any other directory
// straight from the filesystem.
func newLocalHost(path string) (domain.RepositoryHost, error) {
	if gitlocal.IsGitRepo(path) {
		return gitlocal.Open(path)
	}
	return localfs.New(path)
}

func newAnalyzer(host domain.RepositoryHost, cfg domain.Config, perf *domain.PerfTracker, clk clock.Clock) (*application.AnalyzeService, error) {
	store, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return application.NewAnalyzeService(host, cfg.MaxDepth,
		application.WithCache(store),
		application.WithPerf(perf),
		application.WithClock(clk),
		application.WithFallbackBranches(cfg.FallbackBranches),
	), nil
}
