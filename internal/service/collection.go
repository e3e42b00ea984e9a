package service

import (
	"context"
	"log/slog"

	"github.com/mylibapp/mylib-server/internal/domain"
	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
	"github.com/mylibapp/mylib-server/internal/store"
	"github.com/mylibapp/mylib-server/internal/validation"
)

// CollectionService orchestrates collection operations. Collections are
// private: every operation is scoped to the owner, and admins get no special
// access. Collection views are never cached.
type CollectionService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st *store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListCollections returns the actor's own collections.
func (s *CollectionService) ListCollections(ctx context.Context, actor *domain.User) ([]*domain.Collection, error) {
	collections, err := s.store.ListCollectionsByUser(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return collections, nil
}

// GetCollection returns a collection view with its books. Owner only;
// absence wins over permission.
func (s *CollectionService) GetCollection(ctx context.Context, actor *domain.User, id int64) (*CollectionView, error) {
	c, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !c.IsOwnedBy(actor.ID) {
		return nil, domainerrors.Forbidden("collection belongs to another user")
	}

	books, err := s.store.ListBooksInCollection(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	rows := make([]domain.BookRow, 0, len(books))
	for _, b := range books {
		rows = append(rows, b.Row())
	}

	return &CollectionView{ID: c.ID, Title: c.Title, UserID: c.UserID, Books: rows}, nil
}

// resolveBooks checks that every requested book exists. Missing ids are
// reported together in a single validation error.
func (s *CollectionService) resolveBooks(ctx context.Context, bookIDs []int64) error {
	if len(bookIDs) == 0 {
		return nil
	}
	existing, err := s.store.ListBooksByIDs(ctx, bookIDs)
	if err != nil {
		return mapStoreErr(err)
	}
	found := make(map[int64]bool, len(existing))
	for _, b := range existing {
		found[b.ID] = true
	}
	for _, id := range bookIDs {
		if !found[id] {
			return missingIDsError("book", bookIDs, found)
		}
	}
	return nil
}

// CreateCollectionRequest contains fields for creating a collection.
type CreateCollectionRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=200"`
	BookIDs []int64 `json:"book_ids,omitempty" validate:"dive,gt=0"`
}

// CreateCollection creates a collection owned by the actor. Every referenced
// book must exist before anything is written.
func (s *CollectionService) CreateCollection(ctx context.Context, actor *domain.User, req CreateCollectionRequest) (*CollectionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, req.BookIDs); err != nil {
		return nil, err
	}

	c := &domain.Collection{Title: req.Title, UserID: actor.ID}
	if err := s.store.CreateCollection(ctx, c, req.BookIDs); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info("collection created", "id", c.ID, "owner", actor.ID)
	return s.GetCollection(ctx, actor, c.ID)
}

// UpdateCollectionRequest contains fields for updating a collection.
type UpdateCollectionRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=200"`
	BookIDs []int64 `json:"book_ids,omitempty" validate:"dive,gt=0"`
}

// UpdateCollection retitles a collection and replaces its book set wholesale.
// Owner only; absence wins over permission.
func (s *CollectionService) UpdateCollection(ctx context.Context, actor *domain.User, id int64, req UpdateCollectionRequest) (*CollectionView, error) {
	c, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !c.IsOwnedBy(actor.ID) {
		return nil, domainerrors.Forbidden("collection belongs to another user")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.resolveBooks(ctx, req.BookIDs); err != nil {
		return nil, err
	}

	c.Title = req.Title
	if err := s.store.UpdateCollection(ctx, c, req.BookIDs); err != nil {
		return nil, mapStoreErr(err)
	}

	return s.GetCollection(ctx, actor, id)
}

// DeleteCollection deletes a collection. Owner only; the books survive.
func (s *CollectionService) DeleteCollection(ctx context.Context, actor *domain.User, id int64) error {
	c, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if !c.IsOwnedBy(actor.ID) {
		return domainerrors.Forbidden("collection belongs to another user")
	}

	if err := s.store.DeleteCollection(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info("collection deleted", "id", id, "owner", actor.ID)
	return nil
}
