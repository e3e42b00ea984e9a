// Package di provides dependency injection configuration for the MyLib server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/mylibapp/mylib-server/internal/auth"
	"github.com/mylibapp/mylib-server/internal/config"
	"github.com/mylibapp/mylib-server/internal/di/providers"
	"github.com/mylibapp/mylib-server/internal/logger"
	"github.com/mylibapp/mylib-server/internal/mail"
	"github.com/mylibapp/mylib-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideMailer)

	// Business services
	do.Provide(injector, providers.ProvideInvalidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAuthorService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideReviewService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization in
// dependency order and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[mail.Mailer](injector)

	_ = do.MustInvoke[*service.Invalidator](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AuthorService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
