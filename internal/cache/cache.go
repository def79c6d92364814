package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// DefaultCacheTTL is the default time-to-live for cached mappings (30 days)
const DefaultCacheTTL = 720 * time.Hour

// CacheDB manages the SQLite database connection for the dropdown cache
type CacheDB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalCache     *CacheDB
	globalCacheOnce sync.Once
)

// ResetGlobalCache closes the current global cache and resets the singleton
// so the next call to GetGlobalCache will create a new instance.
// This is primarily for testing purposes.
func ResetGlobalCache() error {
	if globalCache != nil {
		if err := globalCache.Close(); err != nil {
			return err
		}
	}
	globalCache = nil
	globalCacheOnce = sync.Once{}
	return nil
}

// GetGlobalCache returns the singleton cache database instance
func GetGlobalCache() (*CacheDB, error) {
	var initErr error
	globalCacheOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalCache, initErr = NewCacheDB(dbPath)
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalCache, nil
}

// NewCacheDB creates a new CacheDB instance and opens the database connection
func NewCacheDB(dbPath string) (*CacheDB, error) {
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

	if _, err := db.Exec(DropdownCacheSchema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
	}

	return &CacheDB{
		db:   db,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (c *CacheDB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetMappings returns all cached name->value mappings of the given kind for
// a site, excluding entries older than the TTL.
func (c *CacheDB) GetMappings(site, kind string, ttl time.Duration) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cutoff := time.Now().Add(-ttl).UTC()
	rows, err := c.db.Query(
		`SELECT name, value FROM dropdown_cache WHERE site = ? AND kind = ? AND cached_at > ?`,
		site, kind, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query dropdown cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	mappings := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan dropdown cache row: %w", err)
		}
		mappings[name] = value
	}
	return mappings, rows.Err()
}

// PutMapping stores or refreshes one name->value mapping.
func (c *CacheDB) PutMapping(site, kind, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT INTO dropdown_cache (site, kind, name, value, cached_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (site, kind, name) DO UPDATE SET value = excluded.value, cached_at = excluded.cached_at`,
		site, kind, name, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store dropdown mapping: %w", err)
	}
	return nil
}

// Invalidate deletes all cached mappings for a site.
// Returns the number of rows deleted.
func (c *CacheDB) Invalidate(site string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(`DELETE FROM dropdown_cache WHERE site = ?`, site)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Dropdown cache cleared", "site", site, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// Mappings is a best-effort load through the global cache: failures are
// logged and an empty map returned, so runs work without a usable cache.
func Mappings(site, kind string) map[string]string {
	cache, err := GetGlobalCache()
	if err != nil {
		slog.Warn("Failed to initialize dropdown cache", "error", err)
		return map[string]string{}
	}

	ttl := configuredTTL()
	mappings, err := cache.GetMappings(site, kind, ttl)
	if err != nil {
		slog.Warn("Failed to load dropdown mappings", "site", site, "kind", kind, "error", err)
		return map[string]string{}
	}
	slog.Debug("Loaded dropdown mappings", "site", site, "kind", kind, "count", len(mappings))
	return mappings
}

// SaveMapping is a best-effort store through the global cache.
func SaveMapping(site, kind, name, value string) {
	cache, err := GetGlobalCache()
	if err != nil {
		return
	}
	if err := cache.PutMapping(site, kind, name, value); err != nil {
		slog.Warn("Failed to store dropdown mapping", "site", site, "kind", kind, "name", name, "error", err)
	}
}

func configuredTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultCacheTTL
	}
	return ttl
}
