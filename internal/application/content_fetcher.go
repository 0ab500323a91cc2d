package application

import (
	"context"
	"errors"
	"log"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// ContentFetcher resolves file contents for one repository. It consults the
// cache first, then tries the default branch followed by the fallback
// branches in order. A file no branch yields is reported as absent.
//
// An exhausted rate-limit budget or a cancelled context is remembered and
// returned by Err; later lookups are answered as absent without calling the
// host.
type ContentFetcher struct {
	host     domain.RepositoryHost
	cache    domain.ContentCache
	repo     domain.Repository
	branches []string
	err      error
}

// NewContentFetcher builds a fetcher for repo. cache may be nil.
func NewContentFetcher(host domain.RepositoryHost, cache domain.ContentCache, repo domain.Repository, fallbacks []string) *ContentFetcher {
	return &ContentFetcher{
		host:     host,
		cache:    cache,
		repo:     repo,
		branches: Branches(repo.DefaultBranch, fallbacks),
	}
}

// Branches returns the default branch followed by the fallbacks with empty
// names and duplicates removed.
func Branches(defaultBranch string, fallbacks []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range append([]string{defaultBranch}, fallbacks...) {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// Content implements classify.ContentSource.
func (f *ContentFetcher) Content(ctx context.Context, path string) (string, bool) {
	key := domain.ContentKey(f.repo.ID, path)
	if f.cache != nil {
		if c, ok := f.cache.Get(key); ok {
			return c, true
		}
	}
	if f.err != nil {
		return "", false
	}

	for _, ref := range f.branches {
		data, err := f.host.FileContent(ctx, f.repo, path, ref)
		if err == nil {
			content := string(data)
			if f.cache != nil {
				f.cache.Add(key, content)
			}
			return content, true
		}
		if ctx.Err() != nil || errors.Is(err, domain.ErrRateLimitExceeded) {
			f.err = err
			return "", false
		}
		log.Printf("content: %s@%s in %s: %v", path, ref, f.repo.Name, err)
	}
	log.Printf("content: %s in %s: %v", path, f.repo.Name, domain.ErrContentNotFound)
	return "", false
}

// Err returns the failure that stopped the fetcher, if any.
func (f *ContentFetcher) Err() error {
	return f.err
}
