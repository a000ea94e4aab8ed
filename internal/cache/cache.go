// Package cache implements the LLM cache file format (spec.md section
// 6): a JSON map from key to a value record carrying its own timestamp,
// TTL interpretation left to the caller. A missing file is treated as an
// empty cache, never an error.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/peniel-r/cortex/internal/cerr"
)

// Entry is one cached value. Exactly one of Value or Count is meaningful
// per cache kind: summaries.cache uses Value, tokens.cache uses Count
// (SPEC_FULL.md section 3A).
type Entry struct {
	Value     string    `json:"value,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache is an in-memory view of one cache file.
type Cache struct {
	path    string
	entries map[string]Entry
}

// Load reads path into a Cache. A missing file yields an empty, writable
// Cache rather than an error.
func Load(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeInvalidFormat, err)
	}
	return c, nil
}

// Get returns the entry for key, if present.
func (c *Cache) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Set stores entry under key.
func (c *Cache) Set(key string, entry Entry) {
	c.entries[key] = entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the cache back to its path, atomically (temp file plus
// rename), creating the parent directory if absent.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return cerr.Wrap(cerr.ErrCodeInternal, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}
