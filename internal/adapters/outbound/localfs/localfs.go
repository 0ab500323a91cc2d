package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

const maxReadSize = 1 << 20 // 1MB cap for file reads.

// Host implements domain.RepositoryHost over a plain directory. Branch
// references are ignored.
type Host struct {
	root string
}

var _ domain.RepositoryHost = (*Host)(nil)

// New serves the directory at root.
func New(root string) (*Host, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &Host{root: abs}, nil
}

func (h *Host) ListRepositories(ctx context.Context, _ string) ([]domain.Repository, error) {
	repo, err := h.Repository(ctx, 0)
	if err != nil {
		return nil, err
	}
	return []domain.Repository{repo}, nil
}

func (h *Host) Repository(_ context.Context, _ int) (domain.Repository, error) {
	return domain.Repository{
		Name:   filepath.Base(h.root),
		WebURL: "file://" + filepath.ToSlash(h.root),
	}, nil
}

// Languages walks the directory and weighs languages by file size.
func (h *Host) Languages(_ context.Context, _ domain.Repository) (map[string]float64, error) {
	sizes := make(map[string]int64)
	err := filepath.WalkDir(h.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != h.root && domain.SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		lang, ok := domain.LanguageOf(d.Name())
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		sizes[lang] += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domain.LanguageShares(sizes), nil
}

// ListDirectory lists the immediate children of dir.
func (h *Host) ListDirectory(_ context.Context, _ domain.Repository, dir string) ([]domain.TreeEntry, error) {
	full, err := h.resolve(dir)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("listing %q: %w", dir, domain.ErrNotFound)
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("listing %q: %w", dir, domain.ErrDirectoryAccess)
		}
		return nil, err
	}

	entries := make([]domain.TreeEntry, 0, len(items))
	for _, it := range items {
		kind := domain.EntryFile
		switch {
		case it.IsDir():
			kind = domain.EntryDir
		case !it.Type().IsRegular():
			continue
		}
		entries = append(entries, domain.TreeEntry{Name: it.Name(), Path: path.Join(dir, it.Name()), Kind: kind})
	}
	return entries, nil
}

// FileContent reads a file relative to the root.
func (h *Host) FileContent(_ context.Context, _ domain.Repository, p, _ string) ([]byte, error) {
	full, err := h.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", p, domain.ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxReadSize))
}

// resolve maps a slash-separated repository path into the root, refusing
// paths that escape it.
func (h *Host) resolve(p string) (string, error) {
	full := filepath.Join(h.root, filepath.FromSlash(p))
	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: path escapes repository root", p)
	}
	return full, nil
}
