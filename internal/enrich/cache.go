package enrich

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/pgzip"
)

// cacheEntry is one persisted lookup result. Doi is empty for a
// confirmed-negative entry; Found distinguishes that from a positive
// hit with (hypothetically) an empty DOI string.
type cacheEntry struct {
	Key       string `json:"key"`
	Doi       string `json:"doi,omitempty"`
	Found     bool   `json:"found"`
	CreatedAt int64  `json:"created_at"`
}

// Cache is the persistent key->(doi-or-null, created_at) store from
// spec.md §6, backed by a pgzip-compressed JSON-lines archive file. All
// writes serialize through mu, matching spec.md §5's single-writer
// requirement.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]cacheEntry
}

// OpenCache loads path if it exists, or starts an empty cache that will
// be created on first Flush. A missing or empty file is not an error.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]cacheEntry)}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("enrich: open cache: %w", err)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		if err == io.EOF {
			return c, nil
		}
		return nil, fmt.Errorf("enrich: read cache: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e cacheEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue // malformed line: skip, matching spec's "malformed KB line" tolerance
		}
		c.entries[e.Key] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("enrich: scan cache: %w", err)
	}
	return c, nil
}

// Lookup reports the cache state for key: hasEntry is false when there
// is no row at all; when hasEntry is true, found distinguishes a
// positive hit (doi non-empty, found true) from a confirmed negative
// (found false).
func (c *Cache) Lookup(key string) (doi string, found bool, hasEntry bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false, false
	}
	return e.Doi, e.Found, true
}

// PutPositive records a confirmed DOI for key.
func (c *Cache) PutPositive(key, doi string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{Key: key, Doi: doi, Found: true, CreatedAt: time.Now().Unix()}
}

// PutNegative records a confirmed-negative result for key — never
// retried on subsequent runs (spec.md §4.8).
func (c *Cache) PutNegative(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{Key: key, Found: false, CreatedAt: time.Now().Unix()}
}

// Flush rewrites the whole cache file from the in-memory entry set.
// Transient-error lookups never reach here because the caller never
// calls Put* for them (spec.md §4.8's "not cached" rule), so a crash
// mid-enrichment just means those refs are retried next run.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("enrich: create cache file: %w", err)
	}

	gz := pgzip.NewWriter(f)
	w := bufio.NewWriter(gz)
	for _, e := range c.entries {
		b, err := json.Marshal(e)
		if err != nil {
			continue
		}
		w.Write(b)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("enrich: flush cache writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("enrich: close cache gzip: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("enrich: close cache file: %w", err)
	}
	return os.Rename(tmp, c.path)
}
