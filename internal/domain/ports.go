package domain

import (
	"context"
	"strconv"
)

// DirectoryLister lists the immediate children of a directory in a repository.
// The root directory is "".
type DirectoryLister interface {
	ListDirectory(ctx context.Context, repo Repository, dir string) ([]TreeEntry, error)
}

// RepositoryHost is the remote (or local) repository-hosting API.
type RepositoryHost interface {
	DirectoryLister
	ListRepositories(ctx context.Context, filter string) ([]Repository, error)
	Repository(ctx context.Context, id int) (Repository, error)
	Languages(ctx context.Context, repo Repository) (map[string]float64, error)
	FileContent(ctx context.Context, repo Repository, path, ref string) ([]byte, error)
}

// ContentCache holds fetched file contents for the duration of a run.
type ContentCache interface {
	Get(key string) (string, bool)
	Add(key, content string)
}

// ContentKey identifies a file of a repository in a ContentCache.
func ContentKey(repoID int, path string) string {
	return strconv.Itoa(repoID) + ":" + path
}

// ConfigLoader loads run configuration rooted at dir.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}

// ReportStore persists results and answers resume queries.
type ReportStore interface {
	ProcessedNames(path string) (map[string]bool, error)
	Append(path string, results ...Result) error
}
