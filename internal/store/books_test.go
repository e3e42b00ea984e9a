package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mylibapp/mylib-server/internal/domain"
)

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	authorID := insertTestAuthor(t, s, "Ursula K. Le Guin")

	g := &domain.Genre{Name: "Fantasy"}
	if err := s.CreateGenre(ctx, g); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}

	b := &domain.Book{
		Title:      "A Wizard of Earthsea",
		Year:       1968,
		Annotation: "A young wizard learns the cost of power.",
		AuthorID:   authorID,
	}
	if err := s.CreateBook(ctx, b, []int64{g.ID}); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != b.Title {
		t.Errorf("Title: got %q, want %q", got.Title, b.Title)
	}
	if got.Year != 1968 {
		t.Errorf("Year: got %d, want 1968", got.Year)
	}
	if got.Annotation != b.Annotation {
		t.Errorf("Annotation: got %q, want %q", got.Annotation, b.Annotation)
	}
	if got.AuthorID != authorID {
		t.Errorf("AuthorID: got %d, want %d", got.AuthorID, authorID)
	}

	genres, err := s.ListGenresForBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListGenresForBook: %v", err)
	}
	if len(genres) != 1 || genres[0].ID != g.ID {
		t.Errorf("expected genre link to %d, got %+v", g.ID, genres)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), 9999)
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestUpdateBook_ReplacesGenreLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	authorID := insertTestAuthor(t, s, "Iain M. Banks")

	g1 := &domain.Genre{Name: "Science Fiction"}
	g2 := &domain.Genre{Name: "Space Opera"}
	for _, g := range []*domain.Genre{g1, g2} {
		if err := s.CreateGenre(ctx, g); err != nil {
			t.Fatalf("CreateGenre: %v", err)
		}
	}

	bookID := insertTestBook(t, s, "Consider Phlebas", authorID, g1.ID)

	b, err := s.GetBook(ctx, bookID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	b.Title = "The Player of Games"
	b.Year = 1988

	if err := s.UpdateBook(ctx, b, []int64{g2.ID}); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, bookID)
	if err != nil {
		t.Fatalf("GetBook after update: %v", err)
	}
	if got.Title != "The Player of Games" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Year != 1988 {
		t.Errorf("Year: got %d, want 1988", got.Year)
	}

	// The old genre set is fully replaced.
	genres, err := s.ListGenresForBook(ctx, bookID)
	if err != nil {
		t.Fatalf("ListGenresForBook: %v", err)
	}
	if len(genres) != 1 || genres[0].ID != g2.ID {
		t.Errorf("expected only genre %d, got %+v", g2.ID, genres)
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	b := &domain.Book{ID: 9999, Title: "Ghost", Year: 2020, AuthorID: 1}
	err := s.UpdateBook(context.Background(), b, nil)
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestDeleteBook_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	authorID := insertTestAuthor(t, s, "Octavia Butler")
	g := &domain.Genre{Name: "Science Fiction"}
	if err := s.CreateGenre(ctx, g); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	bookID := insertTestBook(t, s, "Kindred", authorID, g.ID)

	userID := insertTestUser(t, s, "frank@example.com")
	r := &domain.Review{UserID: userID, BookID: bookID, Rating: 5, Text: "superb", Created: time.Now()}
	if err := s.CreateReview(ctx, r); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := s.DeleteBook(ctx, bookID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	if _, err := s.GetBook(ctx, bookID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}

	// Genre links and reviews go with the book.
	var links, reviews int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM book_genres WHERE book_id = ?", bookID).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected 0 genre links, got %d", links)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM reviews WHERE book_id = ?", bookID).Scan(&reviews); err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if reviews != 0 {
		t.Errorf("expected 0 reviews, got %d", reviews)
	}
}

func TestListBooksWithAuthors_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a1 := insertTestAuthor(t, s, "Author One")
	a2 := insertTestAuthor(t, s, "Author Two")

	fantasy := &domain.Genre{Name: "Fantasy"}
	scifi := &domain.Genre{Name: "Science Fiction"}
	for _, g := range []*domain.Genre{fantasy, scifi} {
		if err := s.CreateGenre(ctx, g); err != nil {
			t.Fatalf("CreateGenre: %v", err)
		}
	}

	mk := func(title string, year int, authorID int64, genreIDs ...int64) int64 {
		b := &domain.Book{Title: title, Year: year, AuthorID: authorID}
		if err := s.CreateBook(ctx, b, genreIDs); err != nil {
			t.Fatalf("CreateBook(%s): %v", title, err)
		}
		return b.ID
	}

	id1 := mk("The Dark Tower", 1982, a1, fantasy.ID)
	id2 := mk("Dark Matter", 2016, a2, scifi.ID)
	id3 := mk("Bright Morning", 1990, a1, fantasy.ID, scifi.ID)

	// No filter returns everything in ID order.
	all, err := s.ListBooksWithAuthors(ctx, BookFilter{})
	if err != nil {
		t.Fatalf("ListBooksWithAuthors: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 books, got %d", len(all))
	}
	if all[0].Book.ID != id1 || all[1].Book.ID != id2 || all[2].Book.ID != id3 {
		t.Errorf("unexpected order: %d %d %d", all[0].Book.ID, all[1].Book.ID, all[2].Book.ID)
	}
	if all[0].Author == nil || all[0].Author.Name != "Author One" {
		t.Errorf("expected joined author, got %+v", all[0].Author)
	}

	// Title substring match is case-insensitive.
	got, err := s.ListBooksWithAuthors(ctx, BookFilter{Query: "dark"})
	if err != nil {
		t.Fatalf("query filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("query filter: expected 2 books, got %d", len(got))
	}

	// Genre filter matches books with at least one listed genre.
	got, err = s.ListBooksWithAuthors(ctx, BookFilter{GenreIDs: []int64{scifi.ID}})
	if err != nil {
		t.Fatalf("genre filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("genre filter: expected 2 books, got %d", len(got))
	}

	// Year bounds are inclusive.
	from, to := 1982, 1990
	got, err = s.ListBooksWithAuthors(ctx, BookFilter{YearFrom: &from, YearTo: &to})
	if err != nil {
		t.Fatalf("year filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("year filter: expected 2 books, got %d", len(got))
	}

	// Author filter.
	got, err = s.ListBooksWithAuthors(ctx, BookFilter{AuthorIDs: []int64{a2}})
	if err != nil {
		t.Fatalf("author filter: %v", err)
	}
	if len(got) != 1 || got[0].Book.ID != id2 {
		t.Fatalf("author filter: expected book %d, got %+v", id2, got)
	}

	// Filters combine conjunctively.
	got, err = s.ListBooksWithAuthors(ctx, BookFilter{Query: "dark", AuthorIDs: []int64{a1}})
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(got) != 1 || got[0].Book.ID != id1 {
		t.Fatalf("combined filter: expected book %d, got %+v", id1, got)
	}
}

func TestListBooksByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	authorID := insertTestAuthor(t, s, "Someone")
	id1 := insertTestBook(t, s, "One", authorID)
	insertTestBook(t, s, "Two", authorID)

	got, err := s.ListBooksByIDs(ctx, []int64{id1, 9999})
	if err != nil {
		t.Fatalf("ListBooksByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ID != id1 {
		t.Fatalf("expected only book %d, got %+v", id1, got)
	}

	got, err = s.ListBooksByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListBooksByIDs(nil): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
