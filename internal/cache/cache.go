// Package cache persists identifier mappings discovered during lookups:
// kyobo id → cover URL and ISBN → kyobo id. The cover-download fast path
// reads these so a repeat request never hits the search endpoint.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a cached mapping stays valid.
const DefaultTTL = 720 * time.Hour

// DB manages the SQLite connection backing the caches.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates a DB at dbPath and ensures all cache tables exist.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	c := &DB{db: db, path: dbPath}
	for _, schema := range AllSchemas {
		if _, err := c.db.Exec(schema); err != nil {
			closeErr := c.db.Close()
			return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
		}
	}
	return c, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves the value stored under key in the given table. The second
// return value reports whether an unexpired entry was found.
func (c *DB) Get(tableName, key string, ttl time.Duration) (string, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`SELECT data, cached_at FROM %s WHERE cache_key = ?`, tableName)

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	if time.Now().UTC().Sub(cachedAt) > ttl {
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a value in the cache, replacing any previous entry.
func (c *DB) Set(tableName, key, data string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, data, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, tableName)
	if _, err := c.db.Exec(query, key, data); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// ClearExpired removes entries older than ttl from the given table.
func (c *DB) ClearExpired(tableName string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	query := fmt.Sprintf(`DELETE FROM %s WHERE cached_at < ?`, tableName)
	if _, err := c.db.Exec(query, cutoff); err != nil {
		return fmt.Errorf("failed to clear expired cache: %w", err)
	}
	return nil
}

// validateTableName guards the fmt.Sprintf table interpolation above.
func validateTableName(tableName string) error {
	if !ValidTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}
