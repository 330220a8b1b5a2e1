package document

import (
	"strings"
	"sync"
)

// emptyRootLiteral is substituted for whitespace-only text when the caller
// asks for a root object, so downstream schema logic has a mapping to
// attach to.
const emptyRootLiteral = "{}"

// Cache keeps exactly one parsed entry per URI, keyed by version and
// parser options. It is an explicitly constructed object: callers own
// their cache and pass it to consumers.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	version int32
	opts    Options
	set     *Set
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Get returns the parsed set for the URI, reparsing on a miss, on any
// version difference, or when the custom-tag list changed. Replacement is
// wholesale: the new entry supersedes the old one in a single store, which
// is what keeps a stale version from ever being returned after a newer one
// has been requested.
func (c *Cache) Get(uri, text string, version int32, opts Options, addRootObject bool) *Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[uri]; ok && entry.version == version && entry.opts.Equal(opts) {
		return entry.set
	}

	if addRootObject && strings.TrimSpace(text) == "" {
		text = emptyRootLiteral
	}
	set := Parse(text, opts)
	c.entries[uri] = &cacheEntry{version: version, opts: opts, set: set}
	return set
}

// Remove drops the entry for a URI, typically on document close.
func (c *Cache) Remove(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

// Clear drops all entries. Test support.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
