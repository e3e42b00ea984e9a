package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mylibapp/mylib-server/internal/domain"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, role_id, is_verified`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	var roleID int64
	var isVerified int

	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleID, &isVerified)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(roleID)
	u.IsVerified = isVerified != 0
	return &u, nil
}

// CreateUser inserts a new user and seeds their default collections in a
// single transaction. The user's ID is assigned on success.
// Returns ErrAlreadyExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, u *domain.User, collectionTitles []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role_id, is_verified)
		VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, int64(u.Role), boolToInt(u.IsVerified),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for _, title := range collectionTitles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (title, user_id) VALUES (?, ?)`, title, u.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetUser returns a user by ID, including their current role.
// The role is read fresh on every call; callers must not cache it across requests.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail returns a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetUserVerified marks the user's email address as verified.
func (s *Store) SetUserVerified(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_verified = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// SetUserPassword replaces the user's password hash.
func (s *Store) SetUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// SetUserRole updates the user's role. Used by operator tooling; not exposed
// over HTTP.
func (s *Store) SetUserRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET role_id = ? WHERE id = ?`, int64(role), id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// requireRow returns notFound if the result affected no rows.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// boolToInt converts a bool to its sqlite integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
