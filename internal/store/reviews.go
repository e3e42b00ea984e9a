package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mylibapp/mylib-server/internal/domain"
)

const reviewColumns = `id, user_id, book_id, rating, text, created`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review
	var created string

	err := scanner.Scan(&r.ID, &r.UserID, &r.BookID, &r.Rating, &r.Text, &created)
	if err != nil {
		return nil, err
	}

	r.Created, err = parseTime(created)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReviewWithUser pairs a review with its author's row. The user may be nil
// when the account was removed after the review was joined.
type ReviewWithUser struct {
	Review *domain.Review
	User   *domain.User
}

// CreateReview inserts a review. The review's Created timestamp must already
// be set by the caller; the ID is assigned on success.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (user_id, book_id, rating, text, created)
		VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.BookID, r.Rating, r.Text, formatTime(r.Created),
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// GetReview returns a review by ID.
func (s *Store) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviewsForBook returns all reviews of a book ordered by review ID.
func (s *Store) ListReviewsForBook(ctx context.Context, bookID int64) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = ? ORDER BY id ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

const reviewWithUserSelect = `
	SELECT r.id, r.user_id, r.book_id, r.rating, r.text, r.created,
	       u.id, u.name, u.email, u.password_hash, u.role_id, u.is_verified
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

// ListReviewsWithUsers returns every review joined with its author, ordered
// by review ID.
func (s *Store) ListReviewsWithUsers(ctx context.Context) ([]ReviewWithUser, error) {
	rows, err := s.db.QueryContext(ctx, reviewWithUserSelect+` ORDER BY r.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviewsWithUsers(rows)
}

// ListReviewsForBookWithUsers returns all reviews of a book joined with their
// authors, ordered by review ID.
func (s *Store) ListReviewsForBookWithUsers(ctx context.Context, bookID int64) ([]ReviewWithUser, error) {
	rows, err := s.db.QueryContext(ctx,
		reviewWithUserSelect+` WHERE r.book_id = ? ORDER BY r.id ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviewsWithUsers(rows)
}

func collectReviewsWithUsers(rows *sql.Rows) ([]ReviewWithUser, error) {
	var result []ReviewWithUser
	for rows.Next() {
		var r domain.Review
		var u domain.User
		var created string
		var roleID int64
		var isVerified int

		err := rows.Scan(&r.ID, &r.UserID, &r.BookID, &r.Rating, &r.Text, &created,
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleID, &isVerified)
		if err != nil {
			return nil, err
		}

		r.Created, err = parseTime(created)
		if err != nil {
			return nil, err
		}
		u.Role = domain.Role(roleID)
		u.IsVerified = isVerified != 0

		result = append(result, ReviewWithUser{Review: &r, User: &u})
	}
	return result, rows.Err()
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrReviewNotFound)
}
