// Package cache provides a badger-backed response cache and the one-time
// code store used by the auth flows.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Cache wraps a Badger database instance. Response views are stored without
// TTL and removed explicitly on invalidation; one-time codes carry a TTL and
// expire on their own.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates a new cache at the given path.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("cache opened", "path", path)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetJSON looks up a cached view and unmarshals it into dest. Returns false
// on a miss. Read failures are logged and reported as misses so a broken
// cache never breaks a read path.
func (c *Cache) GetJSON(key string, dest any) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores a view under the given key. Write failures are logged and
// swallowed; the next read simply misses.
func (c *Cache) SetJSON(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Delete removes a key. Deleting an absent key is not an error. Failures are
// logged and swallowed; a stale entry is overwritten on the next fill.
func (c *Cache) Delete(key string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}
