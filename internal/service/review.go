package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mylibapp/mylib-server/internal/domain"
	domainerrors "github.com/mylibapp/mylib-server/internal/errors"
	"github.com/mylibapp/mylib-server/internal/store"
	"github.com/mylibapp/mylib-server/internal/validation"
)

// ReviewService orchestrates review operations.
type ReviewService struct {
	store     *store.Store
	inv       *Invalidator
	logger    *slog.Logger
	validator *validation.Validator
}

// NewReviewService creates a new review service.
func NewReviewService(st *store.Store, inv *Invalidator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     st,
		inv:       inv,
		logger:    logger,
		validator: validation.New(),
	}
}

// GetReview returns a single review with its author's summary. A review whose
// user row is gone (cascade races) still renders, with a zero user summary.
func (s *ReviewService) GetReview(ctx context.Context, id int64) (*ReviewView, error) {
	r, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	view := &ReviewView{
		ID:      r.ID,
		Rating:  r.Rating,
		Text:    r.Text,
		Created: r.Created,
	}
	if u, err := s.store.GetUser(ctx, r.UserID); err == nil {
		view.User = u.Summary()
	}
	return view, nil
}

// ListReviews returns every review with its author's summary, ordered by
// review ID.
func (s *ReviewService) ListReviews(ctx context.Context) ([]ReviewView, error) {
	rows, err := s.store.ListReviewsWithUsers(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reviewViews(rows), nil
}

// ListReviewsForBook returns a book's reviews with their authors' summaries.
// The book must exist.
func (s *ReviewService) ListReviewsForBook(ctx context.Context, bookID int64) ([]ReviewView, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, mapStoreErr(err)
	}

	rows, err := s.store.ListReviewsForBookWithUsers(ctx, bookID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reviewViews(rows), nil
}

func reviewViews(rows []store.ReviewWithUser) []ReviewView {
	views := make([]ReviewView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ReviewView{
			ID:      row.Review.ID,
			Rating:  row.Review.Rating,
			Text:    row.Review.Text,
			Created: row.Review.Created,
			User:    row.User.Summary(),
		})
	}
	return views
}

// CreateReviewRequest contains fields for posting a review.
type CreateReviewRequest struct {
	BookID int64  `json:"book_id" validate:"required,gt=0"`
	Rating int    `json:"rating,omitempty"`
	Text   string `json:"text,omitempty" validate:"max=10000"`
}

// CreateReview posts a review on a book. Any authenticated user may review.
// Posting against a nonexistent book is a validation failure, since the book
// id is part of the submitted payload. The creation timestamp is
// server-assigned.
func (s *ReviewService) CreateReview(ctx context.Context, actor *domain.User, req CreateReviewRequest) (*ReviewView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, req.BookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.Validationf("book with id %d does not exist", req.BookID)
		}
		return nil, mapStoreErr(err)
	}

	r := &domain.Review{
		UserID:  actor.ID,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Text:    req.Text,
		Created: time.Now(),
	}
	if !r.RatingInRange() {
		return nil, domainerrors.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, mapStoreErr(err)
	}

	// The book's cached view embeds its reviews and mean rating.
	s.inv.Book(req.BookID)

	s.logger.Info("review created", "id", r.ID, "book_id", req.BookID, "by", actor.ID)
	return &ReviewView{
		ID:      r.ID,
		Rating:  r.Rating,
		Text:    r.Text,
		Created: r.Created,
		User:    actor.Summary(),
	}, nil
}

// DeleteReview removes a review. Allowed for the review's author, moderators,
// and admins; absence wins over permission. The parent book's cached view is
// invalidated the same way review creation invalidates it.
func (s *ReviewService) DeleteReview(ctx context.Context, actor *domain.User, id int64) error {
	r, err := s.store.GetReview(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if r.UserID != actor.ID && !actor.CanModerate() {
		return domainerrors.Forbidden("not allowed to delete this review")
	}

	if err := s.store.DeleteReview(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	s.inv.Book(r.BookID)

	s.logger.Info("review deleted", "id", id, "book_id", r.BookID, "by", actor.ID)
	return nil
}
