package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mylibapp/mylib-server/internal/domain"
)

const bookColumns = `id, title, year, annotation, author_id`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book
	if err := scanner.Scan(&b.ID, &b.Title, &b.Year, &b.Annotation, &b.AuthorID); err != nil {
		return nil, err
	}
	return &b, nil
}

// BookFilter narrows the book listing. All fields are optional; absent fields
// impose no constraint. Present constraints combine conjunctively.
type BookFilter struct {
	// Query matches book titles by case-insensitive substring containment.
	Query string
	// GenreIDs matches books linked to at least one of the listed genres.
	GenreIDs []int64
	// YearFrom and YearTo are inclusive bounds on the publication year.
	YearFrom *int
	YearTo   *int
	// AuthorIDs matches books whose author is in the set.
	AuthorIDs []int64
}

// BookWithAuthor pairs a book row with its author row, as produced by the
// listing join.
type BookWithAuthor struct {
	Book   *domain.Book
	Author *domain.Author
}

// CreateBook inserts a book and its genre links in a single transaction.
// The caller is responsible for validating that the author and every genre
// exist; a foreign-key failure here still rolls back the whole write.
// The book's ID is assigned on success.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book, genreIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO books (title, year, annotation, author_id)
		VALUES (?, ?, ?, ?)`,
		b.Title, b.Year, b.Annotation, b.AuthorID,
	)
	if err != nil {
		return err
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertGenreLinks(ctx, tx, b.ID, genreIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetBook returns a book by ID.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook updates a book's scalar fields and replaces its genre-link set
// wholesale (delete-then-insert) in a single transaction. A failure partway
// leaves the previous association set intact.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book, genreIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET title = ?, year = ?, annotation = ?, author_id = ?
		WHERE id = ?`,
		b.Title, b.Year, b.Annotation, b.AuthorID, b.ID,
	)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrBookNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_genres WHERE book_id = ?`, b.ID); err != nil {
		return err
	}
	if err := insertGenreLinks(ctx, tx, b.ID, genreIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteBook removes a book. Genre links, collection links, and reviews are
// removed by foreign-key cascade.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrBookNotFound)
}

// ListBooksWithAuthors returns books matching the filter, joined with their
// authors, ordered by book ID ascending so repeated identical calls are
// deterministic.
func (s *Store) ListBooksWithAuthors(ctx context.Context, filter BookFilter) ([]BookWithAuthor, error) {
	query := `
		SELECT b.id, b.title, b.year, b.annotation, b.author_id, a.id, a.name, a.bio
		FROM books b
		JOIN authors a ON a.id = b.author_id`

	var conds []string
	var args []any

	if filter.Query != "" {
		conds = append(conds, `LOWER(b.title) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if len(filter.GenreIDs) > 0 {
		conds = append(conds,
			`EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = b.id AND bg.genre_id IN (`+placeholders(len(filter.GenreIDs))+`))`)
		for _, id := range filter.GenreIDs {
			args = append(args, id)
		}
	}
	if filter.YearFrom != nil {
		conds = append(conds, `b.year >= ?`)
		args = append(args, *filter.YearFrom)
	}
	if filter.YearTo != nil {
		conds = append(conds, `b.year <= ?`)
		args = append(args, *filter.YearTo)
	}
	if len(filter.AuthorIDs) > 0 {
		conds = append(conds, `b.author_id IN (`+placeholders(len(filter.AuthorIDs))+`)`)
		for _, id := range filter.AuthorIDs {
			args = append(args, id)
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BookWithAuthor
	for rows.Next() {
		var b domain.Book
		var a domain.Author
		if err := rows.Scan(&b.ID, &b.Title, &b.Year, &b.Annotation, &b.AuthorID,
			&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, err
		}
		result = append(result, BookWithAuthor{Book: &b, Author: &a})
	}
	return result, rows.Err()
}

// ListBooksByIDs returns the subset of the given books that exist.
// Used for all-or-nothing validation of collection book sets.
func (s *Store) ListBooksByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id ASC`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// insertGenreLinks inserts one book_genres row per genre ID within tx.
func insertGenreLinks(ctx context.Context, tx *sql.Tx, bookID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO book_genres (book_id, genre_id) VALUES (?, ?)`, bookID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// placeholders returns n comma-separated sqlite placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
