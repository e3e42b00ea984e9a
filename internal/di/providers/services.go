package providers

import (
	"github.com/samber/do/v2"

	"github.com/mylibapp/mylib-server/internal/auth"
	"github.com/mylibapp/mylib-server/internal/config"
	"github.com/mylibapp/mylib-server/internal/logger"
	"github.com/mylibapp/mylib-server/internal/mail"
	"github.com/mylibapp/mylib-server/internal/service"
)

// ProvideMailer provides the outbound mailer. Without an SMTP server
// configured the codes are only logged, which suits development.
func ProvideMailer(i do.Injector) (mail.Mailer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Mail.SMTPServer == "" {
		log.Info("No SMTP server configured, one-time codes will be logged")
		return mail.NewLogMailer(log.Logger), nil
	}
	return mail.NewSMTPMailer(cfg.Mail.FromAddress, cfg.Mail.SMTPServer, log.Logger), nil
}

// ProvideInvalidator provides the cache invalidation coordinator.
func ProvideInvalidator(i do.Injector) (*service.Invalidator, error) {
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewInvalidator(cacheHandle.Cache, log.Logger), nil
}

// ProvideAuthService provides the auth service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	mailer := do.MustInvoke[mail.Mailer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, cacheHandle.Cache, tokens, mailer, cfg.Auth.CodeDuration, log.Logger), nil
}

// ProvideAuthorService provides the author service.
func ProvideAuthorService(i do.Injector) (*service.AuthorService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	inv := do.MustInvoke[*service.Invalidator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthorService(storeHandle.Store, cacheHandle.Cache, inv, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	inv := do.MustInvoke[*service.Invalidator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, cacheHandle.Cache, inv, log.Logger), nil
}

// ProvideGenreService provides the genre service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	inv := do.MustInvoke[*service.Invalidator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenreService(storeHandle.Store, cacheHandle.Cache, inv, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	inv := do.MustInvoke[*service.Invalidator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, inv, log.Logger), nil
}
