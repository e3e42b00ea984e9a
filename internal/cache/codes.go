package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const codePrefix = "code:"

// ErrCodeNotFound is returned when a one-time code does not exist or has
// already expired. Badger removes expired entries itself, so the two cases
// are indistinguishable.
var ErrCodeNotFound = errors.New("code not found or expired")

// PutCode stores a one-time code mapped to its action token with the given
// time to live.
func (c *Cache) PutCode(code, token string, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(codePrefix+code), []byte(token)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// TakeCode consumes a one-time code: it returns the stored token and deletes
// the entry in the same transaction, so a code can be exchanged at most once.
func (c *Cache) TakeCode(code string) (string, error) {
	key := []byte(codePrefix + code)

	var token string
	err := c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			token = string(val)
			return nil
		}); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("take code: %w", err)
	}
	return token, nil
}
