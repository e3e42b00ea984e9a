package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mylibapp/mylib-server/internal/domain"
)

func TestCreateAndGetCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "owner@example.com")
	authorID := insertTestAuthor(t, s, "Author")
	b1 := insertTestBook(t, s, "First", authorID)
	b2 := insertTestBook(t, s, "Second", authorID)

	c := &domain.Collection{Title: "favorites", UserID: userID}
	if err := s.CreateCollection(ctx, c, []int64{b1, b2}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if got.Title != "favorites" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.UserID != userID {
		t.Errorf("UserID: got %d, want %d", got.UserID, userID)
	}

	books, err := s.ListBooksInCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListBooksInCollection: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].ID != b1 || books[1].ID != b2 {
		t.Errorf("unexpected book order: %d %d", books[0].ID, books[1].ID)
	}
}

func TestGetCollection_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCollection(context.Background(), 9999)
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestUpdateCollection_ReplacesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "owner@example.com")
	authorID := insertTestAuthor(t, s, "Author")
	b1 := insertTestBook(t, s, "First", authorID)
	b2 := insertTestBook(t, s, "Second", authorID)

	c := &domain.Collection{Title: "to read", UserID: userID}
	if err := s.CreateCollection(ctx, c, []int64{b1}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	c.Title = "reading"
	if err := s.UpdateCollection(ctx, c, []int64{b2}); err != nil {
		t.Fatalf("UpdateCollection: %v", err)
	}

	got, err := s.GetCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if got.Title != "reading" {
		t.Errorf("Title: got %q, want %q", got.Title, "reading")
	}

	books, err := s.ListBooksInCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListBooksInCollection: %v", err)
	}
	if len(books) != 1 || books[0].ID != b2 {
		t.Errorf("expected only book %d, got %+v", b2, books)
	}
}

func TestUpdateCollection_NotFound(t *testing.T) {
	s := newTestStore(t)

	c := &domain.Collection{ID: 9999, Title: "ghost", UserID: 1}
	err := s.UpdateCollection(context.Background(), c, nil)
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestDeleteCollection_KeepsBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := insertTestUser(t, s, "owner@example.com")
	authorID := insertTestAuthor(t, s, "Author")
	bookID := insertTestBook(t, s, "Kept", authorID)

	c := &domain.Collection{Title: "doomed", UserID: userID}
	if err := s.CreateCollection(ctx, c, []int64{bookID}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	if err := s.DeleteCollection(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}

	if _, err := s.GetCollection(ctx, c.ID); !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	// The linked book survives.
	if _, err := s.GetBook(ctx, bookID); err != nil {
		t.Fatalf("GetBook after collection delete: %v", err)
	}
}

func TestListCollectionsByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := insertTestUser(t, s, "one@example.com")
	u2 := insertTestUser(t, s, "two@example.com")

	for _, title := range []string{"a", "b"} {
		c := &domain.Collection{Title: title, UserID: u1}
		if err := s.CreateCollection(ctx, c, nil); err != nil {
			t.Fatalf("CreateCollection(%s): %v", title, err)
		}
	}
	c := &domain.Collection{Title: "other", UserID: u2}
	if err := s.CreateCollection(ctx, c, nil); err != nil {
		t.Fatalf("CreateCollection(other): %v", err)
	}

	got, err := s.ListCollectionsByUser(ctx, u1)
	if err != nil {
		t.Fatalf("ListCollectionsByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(got))
	}
	for _, col := range got {
		if col.UserID != u1 {
			t.Errorf("collection %d owned by %d, want %d", col.ID, col.UserID, u1)
		}
	}
}
