package application_test

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// fakeHost serves a repository from a flat path → content map. Every file
// lives on the branches listed in refs (all branches when refs is nil).
type fakeHost struct {
	repos     []domain.Repository
	files     map[string]string
	refs      map[string][]string
	langs     map[string]float64
	langErr   error
	listErr   map[string]error
	repoErr   map[string]error
	fileErr   error
	listed    []string
	fetched   []string
	listCalls int
}

func (h *fakeHost) ListRepositories(_ context.Context, _ string) ([]domain.Repository, error) {
	h.listCalls++
	return h.repos, nil
}

func (h *fakeHost) Repository(_ context.Context, id int) (domain.Repository, error) {
	for _, r := range h.repos {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Repository{}, domain.ErrNotFound
}

func (h *fakeHost) Languages(_ context.Context, _ domain.Repository) (map[string]float64, error) {
	if h.langErr != nil {
		return nil, h.langErr
	}
	return h.langs, nil
}

func (h *fakeHost) ListDirectory(_ context.Context, repo domain.Repository, dir string) ([]domain.TreeEntry, error) {
	h.listed = append(h.listed, dir)
	if err := h.repoErr[repo.Name]; err != nil {
		return nil, err
	}
	if err := h.listErr[dir]; err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []domain.TreeEntry
	for _, p := range sortedKeys(h.files) {
		rest := p
		if dir != "" {
			if !strings.HasPrefix(p, dir+"/") {
				continue
			}
			rest = strings.TrimPrefix(p, dir+"/")
		}
		name, _, isDir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		kind := domain.EntryFile
		if isDir {
			kind = domain.EntryDir
		}
		entries = append(entries, domain.TreeEntry{Name: name, Path: path.Join(dir, name), Kind: kind})
	}
	return entries, nil
}

func (h *fakeHost) FileContent(_ context.Context, _ domain.Repository, p, ref string) ([]byte, error) {
	h.fetched = append(h.fetched, p+"@"+ref)
	if h.fileErr != nil {
		return nil, h.fileErr
	}
	content, ok := h.files[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if refs, limited := h.refs[p]; limited {
		for _, r := range refs {
			if r == ref {
				return []byte(content), nil
			}
		}
		return nil, domain.ErrNotFound
	}
	return []byte(content), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type mapCache map[string]string

func (c mapCache) Get(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

func (c mapCache) Add(key, content string) { c[key] = content }

type memoryReport struct {
	existing map[string]bool
	rows     []domain.Result
	err      error
}

func (m *memoryReport) ProcessedNames(string) (map[string]bool, error) {
	if m.existing == nil {
		return map[string]bool{}, nil
	}
	return m.existing, nil
}

func (m *memoryReport) Append(_ string, results ...domain.Result) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, results...)
	return nil
}

type stubAnalyzer struct {
	status map[string]domain.WebAppStatus
	seen   []string
}

func (a *stubAnalyzer) Analyze(_ context.Context, repo domain.Repository) domain.Result {
	a.seen = append(a.seen, repo.Name)
	r := domain.NewResult(repo)
	if s, ok := a.status[repo.Name]; ok {
		r.IsWebApp = s
	}
	return r
}

func createdAt(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
