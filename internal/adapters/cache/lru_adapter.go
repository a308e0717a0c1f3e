package cache

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zatekoja/zoramarket/internal/domain/providers"
)

type lruEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e lruEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// LRUAdapter is an in-process CacheProvider bounded by entry count.
// It stands in for Redis when Redis is not reachable.
type LRUAdapter struct {
	cache *lru.Cache[string, lruEntry]
	now   func() time.Time
	// serialises DeletePattern against concurrent writers
	mu sync.Mutex
}

var _ providers.CacheProvider = (*LRUAdapter)(nil)

// NewLRUAdapter creates an LRU cache holding at most size entries
func NewLRUAdapter(size int) (*LRUAdapter, error) {
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUAdapter{cache: c, now: time.Now}, nil
}

// Get retrieves a value from cache
func (a *LRUAdapter) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := a.cache.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	if entry.expired(a.now()) {
		a.cache.Remove(key)
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value; expirationSeconds <= 0 keeps it until evicted
func (a *LRUAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	entry := lruEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if expirationSeconds > 0 {
		entry.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	a.mu.Lock()
	a.cache.Add(key, entry)
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *LRUAdapter) Delete(_ context.Context, key string) error {
	a.cache.Remove(key)
	return nil
}

// Exists checks if a live key exists in cache
func (a *LRUAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	return err == nil, nil
}

// DeletePattern removes keys matching a Redis-style glob ('*' and '?')
func (a *LRUAdapter) DeletePattern(_ context.Context, pattern string) error {
	re, err := globToRegexp(pattern)
	if err != nil {
		return fmt.Errorf("invalid cache key pattern %q: %w", pattern, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range a.cache.Keys() {
		if re.MatchString(key) {
			a.cache.Remove(key)
		}
	}
	return nil
}

// globToRegexp translates a Redis glob. Unlike path.Match, '*' also spans '/'
// so that "http:cache:*" covers cached URL paths.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Len returns the number of cached entries, expired ones included
func (a *LRUAdapter) Len() int {
	return a.cache.Len()
}
