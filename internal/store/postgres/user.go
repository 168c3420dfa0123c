package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// GetUserByUsername looks an account up by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, name, email, user_type, department, status,
		student_id, employee_id, created_at, last_login
		FROM users WHERE username = $1`
	var user models.User
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin stamps the account's last sign-in time.
func (s *Store) UpdateLastLogin(ctx context.Context, username string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE username = $1`
	res, err := s.db.ExecContext(ctx, query, username, ts)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
