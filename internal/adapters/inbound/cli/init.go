package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/repoprobe/internal/domain"
)

const configFileName = ".repoprobe.yaml"

func newInitCmd() *cobra.Command {
	var (
		gitlabURL string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .repoprobe.yaml configuration file",
		Long:  "Create a .repoprobe.yaml with the default scan settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, configFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			cfg := domain.DefaultConfig()
			cfg.GitLabURL = gitlabURL

			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&gitlabURL, "gitlab-url", "", "GitLab instance URL to record in the file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .repoprobe.yaml")

	return cmd
}

func generateConfig(cfg domain.Config) string {
	var b strings.Builder
	b.WriteString("# repoprobe configuration\n\n")

	if cfg.GitLabURL != "" {
		fmt.Fprintf(&b, "gitlab_url: %s\n", cfg.GitLabURL)
	} else {
		b.WriteString("# gitlab_url: https://gitlab.example.com\n")
	}
	b.WriteString("# token is read from GITLAB_TOKEN or .env\n\n")

	fmt.Fprintf(&b, "rate_limit: %g\n", cfg.RateLimit)
	fmt.Fprintf(&b, "max_depth: %d\n", cfg.MaxDepth)
	fmt.Fprintf(&b, "max_retries: %d\n", cfg.MaxRetries)
	fmt.Fprintf(&b, "cache_size: %d\n", cfg.CacheSize)

	b.WriteString("fallback_branches:\n")
	for _, br := range cfg.FallbackBranches {
		fmt.Fprintf(&b, "  - %s\n", br)
	}

	b.WriteString(`
# filter: api
# max_repos: 100
# output: gitlab-analysis.csv
`)
	return b.String()
}
