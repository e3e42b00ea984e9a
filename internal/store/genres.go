package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mylibapp/mylib-server/internal/domain"
)

const genreColumns = `id, name`

func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre
	if err := scanner.Scan(&g.ID, &g.Name); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGenre inserts a new genre. The genre's ID is assigned on success.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO genres (name) VALUES (?)`, g.Name)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

// GetGenre returns a genre by ID.
func (s *Store) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE id = ?`, id)

	g, err := scanGenre(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGenreNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGenres returns all genres ordered by ID.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGenres(rows)
}

// ListGenresByIDs returns the subset of the given genres that exist.
// Used for all-or-nothing validation of book genre sets.
func (s *Store) ListGenresByIDs(ctx context.Context, ids []int64) ([]*domain.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + genreColumns + ` FROM genres WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id ASC`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGenres(rows)
}

// ListGenresForBook returns the genres linked to a book ordered by genre ID.
func (s *Store) ListGenresForBook(ctx context.Context, bookID int64) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name
		FROM genres g
		JOIN book_genres bg ON bg.genre_id = g.id
		WHERE bg.book_id = ?
		ORDER BY g.id ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGenres(rows)
}

// UpdateGenre updates a genre's name.
func (s *Store) UpdateGenre(ctx context.Context, g *domain.Genre) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE genres SET name = ? WHERE id = ?`, g.Name, g.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrGenreNotFound)
}

// DeleteGenre removes a genre. Book links are removed by foreign-key cascade;
// the books themselves are untouched.
func (s *Store) DeleteGenre(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrGenreNotFound)
}

// ListBooksByGenre returns all books linked to the given genre ordered by book ID.
func (s *Store) ListBooksByGenre(ctx context.Context, genreID int64) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.year, b.annotation, b.author_id
		FROM books b
		JOIN book_genres bg ON bg.book_id = b.id
		WHERE bg.genre_id = ?
		ORDER BY b.id ASC`, genreID)
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

func collectGenres(rows *sql.Rows) ([]*domain.Genre, error) {
	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
