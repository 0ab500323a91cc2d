package cli

import (
	"fmt"
	"log"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/report"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/tui"
	"github.com/abdidvp/repoprobe/internal/application"
	"github.com/abdidvp/repoprobe/internal/domain"
)

func newScanCmd() *cobra.Command {
	var (
		s        settings
		filter   string
		maxRepos int
		output   string
		perf     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify every repository you can access on GitLab",
		Long: "List the GitLab projects the token is a member of, classify each one and append a row per repository to a CSV report.\n" +
			"Repositories already present in the report are skipped, so an interrupted scan can be resumed by running it again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("filter") {
				cfg.Filter = filter
			}
			if cmd.Flags().Changed("max-repos") {
				cfg.MaxRepos = maxRepos
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			clk := clock.New()
			if cfg.Output == "" {
				cfg.Output = domain.DefaultOutput(clk.Now())
			}

			var tracker *domain.PerfTracker
			if perf {
				tracker = domain.NewPerfTracker(clk.Now)
			}

			host, err := newGitLabHost(cfg, tracker, clk)
			if err != nil {
				return err
			}
			analyzer, err := newAnalyzer(host, cfg, tracker, clk)
			if err != nil {
				return err
			}
			batch := application.NewBatchService(host, analyzer, report.New(), clk)

			out := cmd.OutOrStdout()
			summary, err := batch.Run(cmd.Context(), application.BatchOptions{
				Filter:   cfg.Filter,
				MaxRepos: cfg.MaxRepos,
				Output:   cfg.Output,
			}, func(i, n int, r domain.Result) {
				fmt.Fprintf(out, "[%d/%d] %s: %s %s\n", i, n, r.Name, r.IsWebApp, r.BackendFramework)
			})
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			st := host.LimiterStats()
			log.Printf("scan: %d API calls, %s spent throttled", st.Calls, st.Waited)

			fmt.Fprint(out, tui.RenderSummary(summary))
			if perf {
				fmt.Fprint(out, tui.RenderPerformance(tracker.Summary(), summary.Duration))
			}
			return nil
		},
	}

	s.register(cmd)
	cmd.Flags().StringVar(&filter, "filter", "", "Only analyze repositories whose name contains this text")
	cmd.Flags().IntVar(&maxRepos, "max-repos", 0, "Analyze at most this many repositories (0 = all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV report path (default gitlab-analysis-<timestamp>.csv)")
	cmd.Flags().BoolVar(&perf, "perf", false, "Print API call statistics and a 1000-repository projection")

	return cmd
}
