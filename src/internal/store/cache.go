package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	_ "github.com/mattn/go-sqlite3"

	"citeformat/src/internal/assemble"
)

// SQLiteCache persists assembled bibliographies keyed by assemble.CacheKey,
// so repeated CLI runs over an unchanged document skip rendering.
type SQLiteCache struct {
	db *sql.DB
}

var _ assemble.Cache = (*SQLiteCache)(nil)

// OpenCache opens or creates the cache database at path, creating parent
// directories as needed.
func OpenCache(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS bibliographies (
		key TEXT PRIMARY KEY,
		result TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	log.Debugf("store: cache opened at %s", path)
	return &SQLiteCache{db: db}, nil
}

// Get implements assemble.Cache.
func (c *SQLiteCache) Get(key string) (assemble.Result, bool, error) {
	var raw string
	err := c.db.QueryRow(`SELECT result FROM bibliographies WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return assemble.Result{}, false, nil
	}
	if err != nil {
		return assemble.Result{}, false, fmt.Errorf("cache get: %w", err)
	}
	var res assemble.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return assemble.Result{}, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return res, true, nil
}

// Put implements assemble.Cache.
func (c *SQLiteCache) Put(key string, res assemble.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(`INSERT OR REPLACE INTO bibliographies (key, result) VALUES (?, ?)`, key, string(b)); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Len reports how many bibliographies are cached.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT count(*) FROM bibliographies`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every cached bibliography.
func (c *SQLiteCache) Purge() error {
	_, err := c.db.Exec(`DELETE FROM bibliographies`)
	return err
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
