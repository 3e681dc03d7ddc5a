package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// entry is one persisted cache record: the write timestamp plus the
// scrape result it guards.
type entry struct {
	Timestamp time.Time           `json:"ts"`
	Item      domain.ScrapeResult `json:"item"`
}

type cacheFile struct {
	Entries map[string]entry `json:"entries"`
}

// FileCache is the TTL store of prior scrape outcomes. One mutex owns both
// the in-memory map and the backing file, so concurrent orchestrator runs
// serialize through it; persistence replaces the whole file atomically via
// a temp-file rename. Expiry is checked lazily at read time, entries are
// never proactively evicted.
type FileCache struct {
	path string
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewFileCache loads the cache file at path, treating a missing or corrupt
// file as empty.
func NewFileCache(path string, ttl time.Duration) *FileCache {
	c := &FileCache{
		path:    path,
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil || file.Entries == nil {
		log.Printf("[CACHE] ignoring unreadable cache file %s", path)
		return c
	}
	c.entries = file.Entries
	return c
}

// Get returns the cached result for key, or domain.ErrCacheMiss when the
// key is absent or its entry has aged past the TTL.
func (c *FileCache) Get(key string) (*domain.ScrapeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if c.now().Sub(e.Timestamp) >= c.ttl {
		return nil, domain.ErrCacheMiss
	}
	item := e.Item
	return &item, nil
}

// Put records a result under key, stamped with the current time. The file
// is not touched until Flush.
func (c *FileCache) Put(key string, result *domain.ScrapeResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{Timestamp: c.now(), Item: *result}
}

// Flush persists the whole cache map, writing to a temp file in the same
// directory and renaming it over the target so readers never observe a
// partial file.
func (c *FileCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{Entries: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".price_cache-*")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Size returns the number of stored entries, expired ones included.
func (c *FileCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
