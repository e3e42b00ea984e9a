package api

import (
	"github.com/mylibapp/mylib-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth        *service.AuthService
	Authors     *service.AuthorService
	Books       *service.BookService
	Genres      *service.GenreService
	Collections *service.CollectionService
	Reviews     *service.ReviewService
}
