package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
	"github.com/inkpost/inkpost/internal/storage"
	"github.com/inkpost/inkpost/internal/user"
)

// CreateUser inserts a user record and returns it with the assigned id.
func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return user.User{}, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return user.User{}, fmt.Errorf("password hash is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (email, password_hash, created_at)
		 VALUES (?, ?, ?)`,
		email,
		u.PasswordHash,
		toMillis(u.CreatedAt),
	)
	if err != nil {
		if isUserEmailUniqueViolation(err) {
			// Matches storage.ErrEmailTaken by code while keeping the
			// sqlite cause on the chain.
			return user.User{}, apperrors.Wrap(apperrors.CodeUserEmailTaken, "email is already registered", err)
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return user.User{}, fmt.Errorf("create user id: %w", err)
	}
	u.ID = userID
	u.Email = email
	return u, nil
}

// GetUser returns one user record by id.
func (s *Store) GetUser(ctx context.Context, userID int64) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at
		 FROM users
		 WHERE id = ?`,
		userID,
	)
	return scanUser(row)
}

// GetUserByEmail returns one user record by its unique email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return user.User{}, fmt.Errorf("email is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at
		 FROM users
		 WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var createdAt int64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

var _ storage.UserStore = (*Store)(nil)
