// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// CreateUser inserts a user. The email must already be normalised; a second
// user with the same email fails with ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, fullName, email, passwordHash string) (types.User, error) {
	ts := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fullName, email, passwordHash, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
		return types.User{}, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.User{}, fmt.Errorf("reading user id: %w", err)
	}
	return s.UserByID(ctx, id)
}

const userColumns = `id, full_name, email, password_hash, created_at, updated_at`

func scanUser(row *sql.Row) (types.User, error) {
	var (
		u                types.User
		created, updated string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &created, &updated); err != nil {
		return types.User{}, err
	}
	u.CreatedAt = parseTimestamp(created)
	u.UpdatedAt = parseTimestamp(updated)
	return u, nil
}

// UserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) UserByEmail(ctx context.Context, email string) (types.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// UserByID returns the user with the given ID, or ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (types.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}
