package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mylibapp/mylib-server/internal/domain"
)

const authorColumns = `id, name, bio`

func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*domain.Author, error) {
	var a domain.Author
	if err := scanner.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAuthor inserts a new author. The author's ID is assigned on success.
func (s *Store) CreateAuthor(ctx context.Context, a *domain.Author) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (name, bio) VALUES (?, ?)`, a.Name, a.Bio)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// GetAuthor returns an author by ID.
func (s *Store) GetAuthor(ctx context.Context, id int64) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)

	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAuthors returns all authors ordered by ID.
func (s *Store) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorColumns+` FROM authors ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*domain.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// UpdateAuthor updates an author's name and bio.
func (s *Store) UpdateAuthor(ctx context.Context, a *domain.Author) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE authors SET name = ?, bio = ? WHERE id = ?`, a.Name, a.Bio, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrAuthorNotFound)
}

// DeleteAuthor removes an author. Books by the author, their genre and
// collection links, and their reviews are removed by foreign-key cascade.
func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrAuthorNotFound)
}

// ListBooksByAuthor returns all books by the given author ordered by ID.
func (s *Store) ListBooksByAuthor(ctx context.Context, authorID int64) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE author_id = ? ORDER BY id ASC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
