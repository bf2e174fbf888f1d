package cache

import (
	"log/slog"
	"time"
)

// DetailCache stores fetched detail-page HTML keyed by kyobo id, so
// repeat lookups of the same product skip the network. Unlike CoverCache
// it is purely DB-backed: pages are large and a lookup rarely fetches the
// same id twice in one run. A nil *DetailCache is safe to use and caches
// nothing.
type DetailCache struct {
	db  *DB
	ttl time.Duration
}

// NewDetailCache creates a DetailCache over db. db may be nil. A
// non-positive ttl falls back to DefaultTTL.
func NewDetailCache(db *DB, ttl time.Duration) *DetailCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DetailCache{db: db, ttl: ttl}
}

// Get returns the cached page for a kyobo id, if a fresh copy exists.
func (d *DetailCache) Get(id string) ([]byte, bool) {
	if d == nil || d.db == nil || id == "" {
		return nil, false
	}
	data, found, err := d.db.Get("kyobo_detail_cache", id, d.ttl)
	if err != nil || !found {
		return nil, false
	}
	return []byte(data), true
}

// Put stores the page for a kyobo id.
func (d *DetailCache) Put(id string, page []byte) {
	if d == nil || d.db == nil || id == "" || len(page) == 0 {
		return
	}
	if err := d.db.Set("kyobo_detail_cache", id, string(page)); err != nil {
		slog.Warn("Failed to persist detail page", "id", id, "error", err)
	}
}
