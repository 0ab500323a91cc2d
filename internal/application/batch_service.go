package application

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// Analyzer classifies a single repository.
type Analyzer interface {
	Analyze(ctx context.Context, repo domain.Repository) domain.Result
}

// BatchOptions select the repositories of a run and the report it writes.
type BatchOptions struct {
	Filter   string
	MaxRepos int
	Output   string
}

// Progress is called after each analyzed repository. n is the number of
// repositories scheduled for this run.
type Progress func(i, n int, r domain.Result)

// BatchService drives a full run:
// list → filter → resume → analyze sequentially → append each row.
type BatchService struct {
	host     domain.RepositoryHost
	analyzer Analyzer
	report   domain.ReportStore
	clock    clock.Clock
}

func NewBatchService(host domain.RepositoryHost, analyzer Analyzer, report domain.ReportStore, clk clock.Clock) *BatchService {
	if clk == nil {
		clk = clock.New()
	}
	return &BatchService{host: host, analyzer: analyzer, report: report, clock: clk}
}

// Run analyzes every selected repository not already present in the report.
// Only listing and report failures abort the run; a repository that cannot
// be analyzed becomes an ERROR row.
func (s *BatchService) Run(ctx context.Context, opts BatchOptions, progress Progress) (domain.BatchSummary, error) {
	start := s.clock.Now()
	summary := domain.BatchSummary{Output: opts.Output}

	// 1. List and filter
	repos, err := s.host.ListRepositories(ctx, opts.Filter)
	if err != nil {
		return summary, fmt.Errorf("listing repositories: %w", err)
	}
	repos = FilterByName(repos, opts.Filter)
	summary.Total = len(repos)

	// 2. Resume
	done, err := s.report.ProcessedNames(opts.Output)
	if err != nil {
		return summary, fmt.Errorf("reading %s: %w", opts.Output, err)
	}
	var pending []domain.Repository
	for _, r := range repos {
		if done[r.Name] {
			summary.Skipped++
			continue
		}
		pending = append(pending, r)
	}

	// 3. Cap
	if opts.MaxRepos > 0 && len(pending) > opts.MaxRepos {
		pending = pending[:opts.MaxRepos]
	}
	log.Printf("batch: %d repositories, %d already reported, %d to analyze", summary.Total, summary.Skipped, len(pending))

	// 4. Analyze and append
	for i, repo := range pending {
		if err := ctx.Err(); err != nil {
			summary.Duration = s.clock.Since(start)
			return summary, err
		}
		res := s.analyzer.Analyze(ctx, repo)
		if err := s.report.Append(opts.Output, res); err != nil {
			summary.Duration = s.clock.Since(start)
			return summary, fmt.Errorf("writing %s: %w", opts.Output, err)
		}
		summary.Count(res)
		if progress != nil {
			progress(i+1, len(pending), res)
		}
	}

	summary.Duration = s.clock.Since(start)
	return summary, nil
}

// FilterByName keeps repositories whose name contains filter, ignoring case.
func FilterByName(repos []domain.Repository, filter string) []domain.Repository {
	if filter == "" {
		return repos
	}
	needle := strings.ToLower(filter)
	var out []domain.Repository
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
