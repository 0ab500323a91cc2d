package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// Store is a bounded in-memory implementation of domain.ContentCache.
// Least recently used entries are evicted first.
type Store struct {
	lru *lru.Cache[string, string]
}

var _ domain.ContentCache = (*Store)(nil)

// New creates a content store holding at most size files.
func New(size int) (*Store, error) {
	if size <= 0 {
		size = domain.DefaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Store{lru: c}, nil
}

// Get returns cached content and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	return s.lru.Get(key)
}

// Add stores content, evicting the oldest entry when full.
func (s *Store) Add(key, content string) {
	s.lru.Add(key, content)
}
