package service

import (
	"fmt"
	"log/slog"

	"github.com/mylibapp/mylib-server/internal/cache"
)

// Cache keys are path-shaped so an entry maps one-to-one onto the endpoint
// whose response it holds.
func bookKey(id int64) string   { return fmt.Sprintf("/books/%d", id) }
func authorKey(id int64) string { return fmt.Sprintf("/authors/%d", id) }
func genreKey(id int64) string  { return fmt.Sprintf("/genres/%d", id) }

// Invalidator removes cached views when the underlying entities change.
// Deletion happens synchronously before the mutation's response is built, so
// a client that reads its own write never sees the stale view.
type Invalidator struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewInvalidator creates an invalidator over the given cache.
func NewInvalidator(c *cache.Cache, logger *slog.Logger) *Invalidator {
	return &Invalidator{cache: c, logger: logger}
}

// Book invalidates a book's cached view. Called on book update and delete,
// and on review create and delete, since reviews feed the book's rating and
// review list.
func (i *Invalidator) Book(id int64) {
	i.cache.Delete(bookKey(id))
	i.logger.Debug("cache invalidated", "key", bookKey(id))
}

// Author invalidates an author's cached view.
func (i *Invalidator) Author(id int64) {
	i.cache.Delete(authorKey(id))
	i.logger.Debug("cache invalidated", "key", authorKey(id))
}

// Genre invalidates a genre's cached view.
func (i *Invalidator) Genre(id int64) {
	i.cache.Delete(genreKey(id))
	i.logger.Debug("cache invalidated", "key", genreKey(id))
}
