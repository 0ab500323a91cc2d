package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/tui"
	"github.com/abdidvp/repoprobe/internal/domain"
)

func newInspectCmd() *cobra.Command {
	var (
		s          settings
		projectID  int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Classify a single repository",
		Long: "Classify one repository and print the verdict with its evidence.\n" +
			"Without --project the repository is read from a local directory or git clone (default: current directory).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.loadConfig(cmd)
			if err != nil {
				return err
			}
			clk := clock.New()

			var (
				host domain.RepositoryHost
				repo domain.Repository
			)
			if cmd.Flags().Changed("project") {
				client, err := newGitLabHost(cfg, nil, clk)
				if err != nil {
					return err
				}
				if repo, err = client.Repository(cmd.Context(), projectID); err != nil {
					return err
				}
				host = client
			} else {
				path := "."
				if len(args) > 0 {
					path = args[0]
				}
				absPath, err := filepath.Abs(path)
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				if host, err = newLocalHost(absPath); err != nil {
					return err
				}
				repos, err := host.ListRepositories(cmd.Context(), "")
				if err != nil {
					return err
				}
				repo = repos[0]
			}

			analyzer, err := newAnalyzer(host, cfg, nil, clk)
			if err != nil {
				return err
			}
			result := analyzer.Analyze(cmd.Context(), repo)

			if jsonOutput {
				return renderJSON(cmd, result)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderResult(result))
			return nil
		},
	}

	s.register(cmd)
	cmd.Flags().IntVar(&projectID, "project", 0, "GitLab project ID to inspect instead of a local path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
