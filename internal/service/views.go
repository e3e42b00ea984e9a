package service

import (
	"time"

	"github.com/mylibapp/mylib-server/internal/domain"
)

// View documents returned by read endpoints. Single-entity book, author, and
// genre views are also what gets cached, so their JSON forms double as the
// cache value format.

// ReviewView is a review with its author's summary.
type ReviewView struct {
	ID      int64              `json:"id"`
	Rating  int                `json:"rating"`
	Text    string             `json:"text"`
	Created time.Time          `json:"created"`
	User    domain.UserSummary `json:"user"`
}

// BookSummary is the list form of a book: scalars, author summary, genres,
// and the derived rating fields, without the review list.
type BookSummary struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Year         int                  `json:"year"`
	Annotation   string               `json:"annotation,omitempty"`
	Author       domain.AuthorSummary `json:"author"`
	Genres       []*domain.Genre      `json:"genres"`
	Rating       float64              `json:"rating"`
	ReviewsCount int                  `json:"reviews_count"`
}

// BookDetail is the single-book view: a summary plus the full review list.
type BookDetail struct {
	BookSummary
	Reviews []ReviewView `json:"reviews"`
}

// AuthorDetail is the single-author view with the author's books.
type AuthorDetail struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Bio   string           `json:"bio,omitempty"`
	Books []domain.BookRow `json:"books"`
}

// GenreBookRow is the book form nested in genre views.
type GenreBookRow struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// GenreDetail is the single-genre view with the genre's books.
type GenreDetail struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Books []GenreBookRow `json:"books"`
}

// CollectionView is a collection with its books.
type CollectionView struct {
	ID     int64            `json:"id"`
	Title  string           `json:"title"`
	UserID int64            `json:"user_id"`
	Books  []domain.BookRow `json:"books"`
}
