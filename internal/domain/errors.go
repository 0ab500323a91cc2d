package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimitExceeded is returned once the rate-limit retry budget is spent.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrTransient marks a failure worth one more attempt.
	ErrTransient = errors.New("transient error")
	// ErrNotFound is returned when a repository, directory or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDirectoryAccess is returned when a directory cannot be listed.
	ErrDirectoryAccess = errors.New("directory not accessible")
	// ErrContentNotFound is returned when no branch yields the requested file.
	ErrContentNotFound = errors.New("content not found on any branch")
	// ErrMalformedManifest is returned when a manifest cannot be parsed.
	ErrMalformedManifest = errors.New("malformed manifest")
)

// RepositoryAnalysisError wraps any failure that escapes to the per-repository boundary.
type RepositoryAnalysisError struct {
	Repository string
	Err        error
}

func (e *RepositoryAnalysisError) Error() string {
	return fmt.Sprintf("analyzing %s: %v", e.Repository, e.Err)
}

func (e *RepositoryAnalysisError) Unwrap() error { return e.Err }
