package cache

// SQL schemas for the cache tables. Every table keys on "cache_key".

// CoverCacheSchema maps a kyobo product id to its cover image URL.
const CoverCacheSchema = `
CREATE TABLE IF NOT EXISTS kyobo_cover_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_kyobo_cover_cached_at ON kyobo_cover_cache(cached_at);
`

// ISBNCacheSchema maps an ISBN to the kyobo product id it was seen on.
const ISBNCacheSchema = `
CREATE TABLE IF NOT EXISTS kyobo_isbn_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_kyobo_isbn_cached_at ON kyobo_isbn_cache(cached_at);
`

// DetailCacheSchema maps a kyobo product id to its detail-page HTML.
const DetailCacheSchema = `
CREATE TABLE IF NOT EXISTS kyobo_detail_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_kyobo_detail_cached_at ON kyobo_detail_cache(cached_at);
`

// AllSchemas contains every cache table schema for initialization.
var AllSchemas = []string{
	CoverCacheSchema,
	ISBNCacheSchema,
	DetailCacheSchema,
}

// ValidTableNames is the whitelist of allowed cache table names, used to
// prevent SQL injection when interpolating table names.
var ValidTableNames = map[string]bool{
	"kyobo_cover_cache":  true,
	"kyobo_isbn_cache":   true,
	"kyobo_detail_cache": true,
}
