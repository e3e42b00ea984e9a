package providers

import (
	"github.com/samber/do/v2"

	"github.com/mylibapp/mylib-server/internal/cache"
	"github.com/mylibapp/mylib-server/internal/config"
	"github.com/mylibapp/mylib-server/internal/logger"
	"github.com/mylibapp/mylib-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := store.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog store initialized", "path", cfg.Database.Path)

	return &StoreHandle{Store: st}, nil
}

// CacheHandle wraps the response cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the badger-backed response cache and code store.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.Cache.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Response cache initialized", "path", cfg.Cache.Path)

	return &CacheHandle{Cache: c}, nil
}
