package scorecard

import "sync"

// ProgramCache stores compiled binding programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache shares a program cache with the editor's default
// evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *editorConfig) {
		cfg.programCache = cache
	}
}

// MemoryCache is an unbounded in-process ProgramCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]any{}}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]any{}
	}
	c.entries[key] = value
}

// Len returns the number of cached programs.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
