package cache

import (
	"log/slog"
	"sync"
)

// CoverCache is the identifier → cover-URL mapping consulted by ranking
// and by the cover-download fast path. Lookups hit an in-process map
// first; a DB, when attached, makes the mappings survive restarts. A nil
// *CoverCache is safe to use and caches nothing.
type CoverCache struct {
	mu     sync.RWMutex
	covers map[string]string // kyobo id → cover URL
	isbns  map[string]string // isbn → kyobo id
	db     *DB
}

// NewCoverCache creates a CoverCache. db may be nil, in which case the
// cache is purely in-memory.
func NewCoverCache(db *DB) *CoverCache {
	return &CoverCache{
		covers: make(map[string]string),
		isbns:  make(map[string]string),
		db:     db,
	}
}

// SetCoverURL records the cover URL for a kyobo id. Returns true when the
// URL is non-empty, matching the "was a cover cached" contract the detail
// fetcher relies on.
func (c *CoverCache) SetCoverURL(id, url string) bool {
	if c == nil || id == "" || url == "" {
		return false
	}
	c.mu.Lock()
	c.covers[id] = url
	c.mu.Unlock()

	if c.db != nil {
		if err := c.db.Set("kyobo_cover_cache", id, url); err != nil {
			slog.Warn("Failed to persist cover URL", "id", id, "error", err)
		}
	}
	return true
}

// CoverURL returns the cached cover URL for a kyobo id, or "".
func (c *CoverCache) CoverURL(id string) string {
	if c == nil || id == "" {
		return ""
	}
	c.mu.RLock()
	url, ok := c.covers[id]
	c.mu.RUnlock()
	if ok {
		return url
	}

	if c.db != nil {
		data, found, err := c.db.Get("kyobo_cover_cache", id, DefaultTTL)
		if err == nil && found {
			c.mu.Lock()
			c.covers[id] = data
			c.mu.Unlock()
			return data
		}
	}
	return ""
}

// SetIDForISBN records which kyobo id an ISBN was seen on.
func (c *CoverCache) SetIDForISBN(isbn, id string) {
	if c == nil || isbn == "" || id == "" {
		return
	}
	c.mu.Lock()
	c.isbns[isbn] = id
	c.mu.Unlock()

	if c.db != nil {
		if err := c.db.Set("kyobo_isbn_cache", isbn, id); err != nil {
			slog.Warn("Failed to persist ISBN mapping", "isbn", isbn, "error", err)
		}
	}
}

// IDForISBN returns the kyobo id previously recorded for an ISBN, or "".
func (c *CoverCache) IDForISBN(isbn string) string {
	if c == nil || isbn == "" {
		return ""
	}
	c.mu.RLock()
	id, ok := c.isbns[isbn]
	c.mu.RUnlock()
	if ok {
		return id
	}

	if c.db != nil {
		data, found, err := c.db.Get("kyobo_isbn_cache", isbn, DefaultTTL)
		if err == nil && found {
			c.mu.Lock()
			c.isbns[isbn] = data
			c.mu.Unlock()
			return data
		}
	}
	return ""
}

// CoverURLFor resolves a cover URL from an identifier map, trying the
// kyobo id keys first and then the ISBN → id mapping. Implements
// metadata.CoverChecker.
func (c *CoverCache) CoverURLFor(identifiers map[string]string) string {
	if c == nil || len(identifiers) == 0 {
		return ""
	}
	id := identifiers["kyobo"]
	if id == "" {
		id = identifiers["kyobobook.co.kr"]
	}
	if id == "" {
		if isbn := identifiers["isbn"]; isbn != "" {
			id = c.IDForISBN(isbn)
		}
	}
	return c.CoverURL(id)
}
