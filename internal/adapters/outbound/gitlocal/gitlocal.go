package gitlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// Host implements domain.RepositoryHost over a local git clone. It reads
// committed content only; the working tree is ignored.
type Host struct {
	path string
	repo *git.Repository
}

var _ domain.RepositoryHost = (*Host)(nil)

// IsGitRepo reports whether path is the root of a git repository.
func IsGitRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Open opens the repository at path.
func Open(path string) (*Host, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(abs)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return &Host{path: abs, repo: repo}, nil
}

// ListRepositories returns the single repository served by the host.
func (h *Host) ListRepositories(ctx context.Context, _ string) ([]domain.Repository, error) {
	repo, err := h.Repository(ctx, 0)
	if err != nil {
		return nil, err
	}
	return []domain.Repository{repo}, nil
}

// Repository describes the clone: HEAD's branch is the default branch and
// the oldest reachable commit gives the creation date. A detached HEAD is
// reported as the "HEAD" revision so content reads follow the checkout.
func (h *Host) Repository(_ context.Context, _ int) (domain.Repository, error) {
	repo := domain.Repository{
		Name:   filepath.Base(h.path),
		WebURL: "file://" + filepath.ToSlash(h.path),
	}

	head, err := h.repo.Head()
	if err != nil {
		return domain.Repository{}, fmt.Errorf("getting HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		repo.DefaultBranch = head.Name().Short()
	} else {
		repo.DefaultBranch = plumbing.HEAD.String()
	}
	if created, err := h.firstCommitTime(head.Hash()); err == nil {
		repo.CreatedAt = &created
	}
	return repo, nil
}

func (h *Host) firstCommitTime(from plumbing.Hash) (time.Time, error) {
	iter, err := h.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return time.Time{}, err
	}
	defer iter.Close()

	var oldest time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		if oldest.IsZero() || c.Author.When.Before(oldest) {
			oldest = c.Author.When
		}
		return nil
	})
	return oldest, err
}

// Languages computes a byte-weighted breakdown of the HEAD tree.
func (h *Host) Languages(_ context.Context, _ domain.Repository) (map[string]float64, error) {
	tree, err := h.tree("")
	if err != nil {
		return nil, err
	}
	sizes := make(map[string]int64)
	err = tree.Files().ForEach(func(f *object.File) error {
		if lang, ok := domain.LanguageOf(f.Name); ok {
			sizes[lang] += f.Size
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domain.LanguageShares(sizes), nil
}

// ListDirectory lists the immediate children of dir in the HEAD tree.
func (h *Host) ListDirectory(_ context.Context, repo domain.Repository, dir string) ([]domain.TreeEntry, error) {
	root, err := h.tree(repo.DefaultBranch)
	if err != nil {
		return nil, err
	}
	tree := root
	if dir != "" {
		tree, err = root.Tree(dir)
		if err != nil {
			if errors.Is(err, object.ErrDirectoryNotFound) {
				return nil, fmt.Errorf("listing %q: %w", dir, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("listing %q: %w", dir, err)
		}
	}

	entries := make([]domain.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		kind := domain.EntryFile
		switch {
		case e.Mode == filemode.Dir:
			kind = domain.EntryDir
		case !e.Mode.IsFile():
			continue
		}
		p := e.Name
		if dir != "" {
			p = dir + "/" + e.Name
		}
		entries = append(entries, domain.TreeEntry{Name: e.Name, Path: p, Kind: kind})
	}
	return entries, nil
}

// FileContent reads path at ref, which may be a branch, tag or commit.
func (h *Host) FileContent(_ context.Context, _ domain.Repository, path, ref string) ([]byte, error) {
	hash, err := h.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w: %w", ref, domain.ErrNotFound, err)
	}
	commit, err := h.repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	f, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s@%s: %w", path, ref, domain.ErrNotFound)
		}
		return nil, err
	}
	r, err := f.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// tree returns the root tree at ref, or at HEAD when ref is empty.
func (h *Host) tree(ref string) (*object.Tree, error) {
	var hash plumbing.Hash
	if ref == "" {
		head, err := h.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("getting HEAD: %w", err)
		}
		hash = head.Hash()
	} else {
		resolved, err := h.repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", ref, err)
		}
		hash = *resolved
	}
	commit, err := h.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}
