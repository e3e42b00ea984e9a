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

// BookService orchestrates book operations and assembles book views.
type BookService struct {
	store     *store.Store
	cache     *cache.Cache
	inv       *Invalidator
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, c *cache.Cache, inv *Invalidator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		cache:     c,
		inv:       inv,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListBooks returns book summaries matching the filter. List responses are
// assembled fresh on every call and never served from cache.
func (s *BookService) ListBooks(ctx context.Context, filter store.BookFilter) ([]BookSummary, error) {
	rows, err := s.store.ListBooksWithAuthors(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	summaries := make([]BookSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := s.buildSummary(ctx, row.Book, row.Author)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// GetBook returns the full book view, cache-first.
func (s *BookService) GetBook(ctx context.Context, id int64) (*BookDetail, error) {
	var view BookDetail
	if s.cache.GetJSON(bookKey(id), &view) {
		return &view, nil
	}

	b, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	a, err := s.store.GetAuthor(ctx, b.AuthorID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	summary, err := s.buildSummary(ctx, b, a)
	if err != nil {
		return nil, err
	}

	// Reviews whose user row cannot be resolved are dropped by the join;
	// a missing reviewer never fails the view.
	withUsers, err := s.store.ListReviewsForBookWithUsers(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	reviews := make([]ReviewView, 0, len(withUsers))
	for _, ru := range withUsers {
		reviews = append(reviews, ReviewView{
			ID:      ru.Review.ID,
			Rating:  ru.Review.Rating,
			Text:    ru.Review.Text,
			Created: ru.Review.Created,
			User:    ru.User.Summary(),
		})
	}

	view = BookDetail{BookSummary: *summary, Reviews: reviews}
	s.cache.SetJSON(bookKey(id), view)
	return &view, nil
}

// buildSummary assembles the summary form of a book from its row and author.
func (s *BookService) buildSummary(ctx context.Context, b *domain.Book, a *domain.Author) (*BookSummary, error) {
	genres, err := s.store.ListGenresForBook(ctx, b.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	reviews, err := s.store.ListReviewsForBook(ctx, b.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if genres == nil {
		genres = []*domain.Genre{}
	}

	return &BookSummary{
		ID:           b.ID,
		Title:        b.Title,
		Year:         b.Year,
		Annotation:   b.Annotation,
		Author:       a.Summary(),
		Genres:       genres,
		Rating:       domain.MeanRating(reviews),
		ReviewsCount: len(reviews),
	}, nil
}

// resolveGenres checks that every requested genre exists. Missing ids are
// reported together in a single validation error.
func (s *BookService) resolveGenres(ctx context.Context, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	existing, err := s.store.ListGenresByIDs(ctx, genreIDs)
	if err != nil {
		return mapStoreErr(err)
	}
	found := make(map[int64]bool, len(existing))
	for _, g := range existing {
		found[g.ID] = true
	}
	for _, id := range genreIDs {
		if !found[id] {
			return missingIDsError("genre", genreIDs, found)
		}
	}
	return nil
}

// CreateBookRequest contains fields for creating a book.
type CreateBookRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=300"`
	Year       int     `json:"year,omitempty" validate:"gte=0,lte=2100"`
	Annotation string  `json:"annotation,omitempty" validate:"max=10000"`
	AuthorID   int64   `json:"author_id" validate:"required,gt=0"`
	GenreIDs   []int64 `json:"genre_ids,omitempty" validate:"dive,gt=0"`
}

// CreateBook creates a book with its genre links. Admin only. The author and
// every genre must exist before anything is written.
func (s *BookService) CreateBook(ctx context.Context, actor *domain.User, req CreateBookRequest) (*BookDetail, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAuthor(ctx, req.AuthorID); err != nil {
		if domainerrors.Is(err, store.ErrAuthorNotFound) {
			return nil, domainerrors.Validationf("author with id %d does not exist", req.AuthorID)
		}
		return nil, mapStoreErr(err)
	}
	if err := s.resolveGenres(ctx, req.GenreIDs); err != nil {
		return nil, err
	}

	b := &domain.Book{
		Title:      req.Title,
		Year:       req.Year,
		Annotation: req.Annotation,
		AuthorID:   req.AuthorID,
	}
	if err := s.store.CreateBook(ctx, b, req.GenreIDs); err != nil {
		return nil, mapStoreErr(err)
	}

	// The author's and genres' cached views list their books.
	s.inv.Author(req.AuthorID)
	for _, gid := range req.GenreIDs {
		s.inv.Genre(gid)
	}

	s.logger.Info("book created", "id", b.ID, "title", b.Title, "by", actor.ID)
	return s.GetBook(ctx, b.ID)
}

// UpdateBookRequest contains fields for updating a book.
type UpdateBookRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=300"`
	Year       int     `json:"year,omitempty" validate:"gte=0,lte=2100"`
	Annotation string  `json:"annotation,omitempty" validate:"max=10000"`
	AuthorID   int64   `json:"author_id" validate:"required,gt=0"`
	GenreIDs   []int64 `json:"genre_ids,omitempty" validate:"dive,gt=0"`
}

// UpdateBook updates a book and replaces its genre set wholesale. Admin only;
// absence wins over permission.
func (s *BookService) UpdateBook(ctx context.Context, actor *domain.User, id int64, req UpdateBookRequest) (*BookDetail, error) {
	old, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAuthor(ctx, req.AuthorID); err != nil {
		if domainerrors.Is(err, store.ErrAuthorNotFound) {
			return nil, domainerrors.Validationf("author with id %d does not exist", req.AuthorID)
		}
		return nil, mapStoreErr(err)
	}
	if err := s.resolveGenres(ctx, req.GenreIDs); err != nil {
		return nil, err
	}

	oldGenres, err := s.store.ListGenresForBook(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	b := &domain.Book{
		ID:         id,
		Title:      req.Title,
		Year:       req.Year,
		Annotation: req.Annotation,
		AuthorID:   req.AuthorID,
	}
	if err := s.store.UpdateBook(ctx, b, req.GenreIDs); err != nil {
		return nil, mapStoreErr(err)
	}

	s.inv.Book(id)
	s.inv.Author(old.AuthorID)
	s.inv.Author(req.AuthorID)
	for _, g := range oldGenres {
		s.inv.Genre(g.ID)
	}
	for _, gid := range req.GenreIDs {
		s.inv.Genre(gid)
	}

	return s.GetBook(ctx, id)
}

// DeleteBook deletes a book; its links and reviews go with it. Admin only.
func (s *BookService) DeleteBook(ctx context.Context, actor *domain.User, id int64) error {
	b, err := s.store.GetBook(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if !actor.IsAdmin() {
		return domainerrors.Forbidden("admin role required")
	}

	genres, err := s.store.ListGenresForBook(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	if err := s.store.DeleteBook(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	s.inv.Book(id)
	s.inv.Author(b.AuthorID)
	for _, g := range genres {
		s.inv.Genre(g.ID)
	}

	s.logger.Info("book deleted", "id", id, "by", actor.ID)
	return nil
}
