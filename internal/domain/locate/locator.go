// Package locate discovers target files level by level without keeping any
// state between calls.
package locate

import (
	"context"
	"errors"
	"log"
	"path"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// Level lists every directory in frontier and returns the target files found
// at this level together with the frontier for level+1. Subdirectories are
// only queued while level < maxDepth.
//
// A directory that cannot be listed is skipped. Only an exhausted rate-limit
// budget or a cancelled context aborts the scan.
func Level(
	ctx context.Context,
	lister domain.DirectoryLister,
	repo domain.Repository,
	frontier []string,
	level, maxDepth int,
) ([]domain.CandidateFile, []string, error) {
	var found []domain.CandidateFile
	var next []string

	for _, dir := range frontier {
		entries, err := lister.ListDirectory(ctx, repo, dir)
		if err != nil {
			if fatal(ctx, err) {
				return found, nil, err
			}
			log.Printf("locate: skipping %q in %s: %v", dir, repo.Name, err)
			continue
		}

		for _, e := range entries {
			p := e.Path
			if p == "" {
				p = path.Join(dir, e.Name)
			}
			switch e.Kind {
			case domain.EntryFile:
				if canon, ok := domain.CanonicalTarget(e.Name); ok {
					found = append(found, domain.CandidateFile{Path: p, Base: canon, Level: level})
				}
			case domain.EntryDir:
				if level < maxDepth && !domain.SkipDirs[e.Name] {
					next = append(next, p)
				}
			}
		}
	}

	return found, next, nil
}

// Accumulate appends found to existing in discovery order. A basename already
// present is suppressed (first occurrence wins); project and solution files
// and the .NET startup sources next to them are kept per path.
func Accumulate(existing, found []domain.CandidateFile) []domain.CandidateFile {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[key(c)] = true
	}
	for _, c := range found {
		k := key(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		existing = append(existing, c)
	}
	return existing
}

func key(c domain.CandidateFile) string {
	if domain.IsProjectFile(c.Base) || c.Base == "Startup.cs" || c.Base == "Program.cs" {
		return c.Path
	}
	return c.Base
}

func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, domain.ErrRateLimitExceeded)
}
