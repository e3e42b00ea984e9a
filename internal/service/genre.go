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

// GenreService orchestrates genre operations.
type GenreService struct {
	store     *store.Store
	cache     *cache.Cache
	inv       *Invalidator
	logger    *slog.Logger
	validator *validation.Validator
}

// NewGenreService creates a new genre service.
func NewGenreService(st *store.Store, c *cache.Cache, inv *Invalidator, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:     st,
		cache:     c,
		inv:       inv,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListGenres returns all genres.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return genres, nil
}

// GetGenre returns the genre view with its books, cache-first.
func (s *GenreService) GetGenre(ctx context.Context, id int64) (*GenreDetail, error) {
	var view GenreDetail
	if s.cache.GetJSON(genreKey(id), &view) {
		return &view, nil
	}

	g, err := s.store.GetGenre(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	books, err := s.store.ListBooksByGenre(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	rows := make([]GenreBookRow, 0, len(books))
	for _, b := range books {
		rows = append(rows, GenreBookRow{ID: b.ID, Title: b.Title, Year: b.Year})
	}

	view = GenreDetail{ID: g.ID, Name: g.Name, Books: rows}
	s.cache.SetJSON(genreKey(id), view)
	return &view, nil
}

// CreateGenreRequest contains fields for creating a genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CreateGenre creates a new genre. Admin only.
func (s *GenreService) CreateGenre(ctx context.Context, actor *domain.User, req CreateGenreRequest) (*domain.Genre, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g := &domain.Genre{Name: req.Name}
	if err := s.store.CreateGenre(ctx, g); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info("genre created", "id", g.ID, "name", g.Name, "by", actor.ID)
	return g, nil
}

// UpdateGenreRequest contains fields for updating a genre.
type UpdateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateGenre renames a genre. Admin only; absence wins over permission.
func (s *GenreService) UpdateGenre(ctx context.Context, actor *domain.User, id int64, req UpdateGenreRequest) (*domain.Genre, error) {
	g, err := s.store.GetGenre(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g.Name = req.Name
	if err := s.store.UpdateGenre(ctx, g); err != nil {
		return nil, mapStoreErr(err)
	}

	s.invalidateGenreGraph(ctx, id)
	return g, nil
}

// DeleteGenre deletes a genre; linked books survive without it. Admin only.
func (s *GenreService) DeleteGenre(ctx context.Context, actor *domain.User, id int64) error {
	if _, err := s.store.GetGenre(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return domainerrors.Forbidden("admin role required")
	}

	books, err := s.store.ListBooksByGenre(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	if err := s.store.DeleteGenre(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	s.inv.Genre(id)
	for _, b := range books {
		s.inv.Book(b.ID)
	}

	s.logger.Info("genre deleted", "id", id, "by", actor.ID)
	return nil
}

// invalidateGenreGraph drops the genre's view and the views of its books,
// which embed the genre name.
func (s *GenreService) invalidateGenreGraph(ctx context.Context, id int64) {
	s.inv.Genre(id)
	books, err := s.store.ListBooksByGenre(ctx, id)
	if err != nil {
		s.logger.Warn("listing books for invalidation failed", "genre_id", id, "error", err)
		return
	}
	for _, b := range books {
		s.inv.Book(b.ID)
	}
}
