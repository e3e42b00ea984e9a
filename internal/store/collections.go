package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mylibapp/mylib-server/internal/domain"
)

const collectionColumns = `id, title, user_id`

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection
	if err := scanner.Scan(&c.ID, &c.Title, &c.UserID); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCollection inserts a collection and its book links in a single
// transaction. The collection's ID is assigned on success.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection, bookIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO collections (title, user_id) VALUES (?, ?)`, c.Title, c.UserID)
	if err != nil {
		return err
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertCollectionLinks(ctx, tx, c.ID, bookIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetCollection returns a collection by ID.
func (s *Store) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollectionsByUser returns all collections owned by the user ordered by ID.
func (s *Store) ListCollectionsByUser(ctx context.Context, userID int64) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// UpdateCollection updates a collection's title and replaces its book-link set
// wholesale (delete-then-insert) in a single transaction. A failure partway
// leaves the previous link set intact.
func (s *Store) UpdateCollection(ctx context.Context, c *domain.Collection, bookIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE collections SET title = ? WHERE id = ?`, c.Title, c.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrCollectionNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM collection_books WHERE collection_id = ?`, c.ID); err != nil {
		return err
	}
	if err := insertCollectionLinks(ctx, tx, c.ID, bookIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteCollection removes a collection. Book links are removed by foreign-key
// cascade; the books themselves are untouched.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrCollectionNotFound)
}

// ListBooksInCollection returns the books linked to a collection ordered by
// book ID.
func (s *Store) ListBooksInCollection(ctx context.Context, collectionID int64) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.year, b.annotation, b.author_id
		FROM books b
		JOIN collection_books cb ON cb.book_id = b.id
		WHERE cb.collection_id = ?
		ORDER BY b.id ASC`, collectionID)
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

// insertCollectionLinks inserts one collection_books row per book ID within tx.
func insertCollectionLinks(ctx context.Context, tx *sql.Tx, collectionID int64, bookIDs []int64) error {
	for _, bookID := range bookIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_books (collection_id, book_id) VALUES (?, ?)`, collectionID, bookID); err != nil {
			return err
		}
	}
	return nil
}
