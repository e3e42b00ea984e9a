package service

import (
	"context"
	"log/slog"

	"github.com/mylibapp/mylib-server/internal/cache"
	"github.com/mylibapp/mylib-server/internal/domain"
	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
	"github.com/mylibapp/mylib-server/internal/store"
	"github.com/mylibapp/mylib-server/internal/validation"
)

// AuthorService orchestrates author operations.
type AuthorService struct {
	store     *store.Store
	cache     *cache.Cache
	inv       *Invalidator
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthorService creates a new author service.
func NewAuthorService(st *store.Store, c *cache.Cache, inv *Invalidator, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		store:     st,
		cache:     c,
		inv:       inv,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListAuthors returns all authors.
func (s *AuthorService) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return authors, nil
}

// GetAuthor returns the author view with their books, cache-first.
func (s *AuthorService) GetAuthor(ctx context.Context, id int64) (*AuthorDetail, error) {
	var view AuthorDetail
	if s.cache.GetJSON(authorKey(id), &view) {
		return &view, nil
	}

	a, err := s.store.GetAuthor(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	books, err := s.store.ListBooksByAuthor(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	rows := make([]domain.BookRow, 0, len(books))
	for _, b := range books {
		rows = append(rows, b.Row())
	}

	view = AuthorDetail{ID: a.ID, Name: a.Name, Bio: a.Bio, Books: rows}
	s.cache.SetJSON(authorKey(id), view)
	return &view, nil
}

// CreateAuthorRequest contains fields for creating an author.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Bio  string `json:"bio,omitempty" validate:"max=5000"`
}

// CreateAuthor creates a new author. Admin only.
func (s *AuthorService) CreateAuthor(ctx context.Context, actor *domain.User, req CreateAuthorRequest) (*domain.Author, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	a := &domain.Author{Name: req.Name, Bio: req.Bio}
	if err := s.store.CreateAuthor(ctx, a); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info("author created", "id", a.ID, "name", a.Name, "by", actor.ID)
	return a, nil
}

// UpdateAuthorRequest contains fields for updating an author.
type UpdateAuthorRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Bio  string `json:"bio,omitempty" validate:"max=5000"`
}

// UpdateAuthor updates an author. Admin only; absence wins over permission.
func (s *AuthorService) UpdateAuthor(ctx context.Context, actor *domain.User, id int64, req UpdateAuthorRequest) (*domain.Author, error) {
	a, err := s.store.GetAuthor(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	a.Name = req.Name
	a.Bio = req.Bio
	if err := s.store.UpdateAuthor(ctx, a); err != nil {
		return nil, mapStoreErr(err)
	}

	s.invalidateAuthorGraph(ctx, id)
	return a, nil
}

// DeleteAuthor deletes an author and, by cascade, their books. Admin only.
func (s *AuthorService) DeleteAuthor(ctx context.Context, actor *domain.User, id int64) error {
	if _, err := s.store.GetAuthor(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return domainerrors.Forbidden("admin role required")
	}

	// Collect dependent cache keys before the cascade removes the rows.
	books, err := s.store.ListBooksByAuthor(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	var genreIDs []int64
	for _, b := range books {
		genres, err := s.store.ListGenresForBook(ctx, b.ID)
		if err != nil {
			return mapStoreErr(err)
		}
		for _, g := range genres {
			genreIDs = append(genreIDs, g.ID)
		}
	}

	if err := s.store.DeleteAuthor(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	s.inv.Author(id)
	for _, b := range books {
		s.inv.Book(b.ID)
	}
	for _, gid := range genreIDs {
		s.inv.Genre(gid)
	}

	s.logger.Info("author deleted", "id", id, "by", actor.ID)
	return nil
}

// invalidateAuthorGraph drops the author's view and the views of their books,
// which embed the author summary.
func (s *AuthorService) invalidateAuthorGraph(ctx context.Context, id int64) {
	s.inv.Author(id)
	books, err := s.store.ListBooksByAuthor(ctx, id)
	if err != nil {
		s.logger.Warn("listing books for invalidation failed", "author_id", id, "error", err)
		return
	}
	for _, b := range books {
		s.inv.Book(b.ID)
	}
}
