package application

import (
	"context"
	"fmt"
	"log"

	"github.com/benbjohnson/clock"

	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/abdidvp/repoprobe/internal/domain/classify"
	"github.com/abdidvp/repoprobe/internal/domain/locate"
)

// AnalyzeService classifies one repository at a time:
// metadata → locate level by level → classify → stop on HIGH confidence.
type AnalyzeService struct {
	host      domain.RepositoryHost
	cache     domain.ContentCache
	perf      *domain.PerfTracker
	clock     clock.Clock
	maxDepth  int
	fallbacks []string
}

// AnalyzeOption customises an AnalyzeService.
type AnalyzeOption func(*AnalyzeService)

// WithCache shares a content cache across repositories.
func WithCache(c domain.ContentCache) AnalyzeOption {
	return func(s *AnalyzeService) { s.cache = c }
}

// WithPerf attributes API calls and timings to each analyzed repository.
func WithPerf(p *domain.PerfTracker) AnalyzeOption {
	return func(s *AnalyzeService) { s.perf = p }
}

// WithClock replaces the wall clock used for timings.
func WithClock(c clock.Clock) AnalyzeOption {
	return func(s *AnalyzeService) { s.clock = c }
}

// WithFallbackBranches sets the branches tried after the default branch.
func WithFallbackBranches(branches []string) AnalyzeOption {
	return func(s *AnalyzeService) { s.fallbacks = branches }
}

func NewAnalyzeService(host domain.RepositoryHost, maxDepth int, opts ...AnalyzeOption) *AnalyzeService {
	s := &AnalyzeService{
		host:      host,
		clock:     clock.New(),
		maxDepth:  maxDepth,
		fallbacks: domain.DefaultConfig().FallbackBranches,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze never fails: anything that escapes the search is turned into an
// ERROR result carrying the error text.
func (s *AnalyzeService) Analyze(ctx context.Context, repo domain.Repository) (res domain.Result) {
	start := s.clock.Now()
	s.perf.StartRepository()
	defer func() {
		s.perf.FinishRepository(res.WebAppType, s.clock.Since(start))
	}()
	defer func() {
		if r := recover(); r != nil {
			res = s.failed(repo, fmt.Errorf("panic: %v", r))
		}
	}()

	// 1. Metadata, best effort
	created, languages := s.metadata(ctx, repo)

	// 2. Progressive search
	res, err := s.search(ctx, repo)
	if err != nil {
		return s.failed(repo, err)
	}

	res.Name = repo.Name
	res.URL = repo.WebURL
	res.DateCreated = created
	res.Languages = languages
	return res
}

func (s *AnalyzeService) metadata(ctx context.Context, repo domain.Repository) (created, languages string) {
	if repo.CreatedAt != nil {
		created = repo.CreatedAt.Format("2006-01-02")
	}
	shares, err := s.host.Languages(ctx, repo)
	if err != nil {
		log.Printf("analyze: languages of %s: %v", repo.Name, err)
		return created, ""
	}
	return created, domain.FormatLanguages(shares)
}

// search explores levels 0..maxDepth and classifies whenever a level adds
// candidates, returning early once confidence is HIGH.
func (s *AnalyzeService) search(ctx context.Context, repo domain.Repository) (domain.Result, error) {
	fetcher := NewContentFetcher(s.host, s.cache, repo, s.fallbacks)

	var files []domain.CandidateFile
	frontier := []string{""}
	res := classify.Classify(ctx, nil, fetcher)

	for level := 0; level <= s.maxDepth && len(frontier) > 0; level++ {
		found, next, err := locate.Level(ctx, s.host, repo, frontier, level, s.maxDepth)
		if err != nil {
			return res, err
		}
		frontier = next

		before := len(files)
		files = locate.Accumulate(files, found)
		if len(files) == before {
			continue
		}

		res = classify.Classify(ctx, files, fetcher)
		if err := fetcher.Err(); err != nil {
			return res, err
		}
		if res.Confidence == domain.ConfidenceHigh {
			log.Printf("analyze: %s decided at level %d", repo.Name, level)
			break
		}
	}
	return res, nil
}

func (s *AnalyzeService) failed(repo domain.Repository, err error) domain.Result {
	aerr := &domain.RepositoryAnalysisError{Repository: repo.Name, Err: err}
	log.Printf("analyze: %v", aerr)
	return domain.ErrorResult(repo, aerr)
}
