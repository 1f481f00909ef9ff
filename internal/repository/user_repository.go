package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, role string) (*domain.User, error) {
	user := &domain.User{Email: email, Role: role}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
		 RETURNING id, is_active, created_at`,
		email, passwordHash, role).Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByEmail returns the user plus the stored password hash for
// credential verification.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var (
		user domain.User
		hash string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, is_active, created_at
		 FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.Email, &hash, &user.Role, &user.IsActive, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("query user by email: %w", err)
	}
	return &user, hash, nil
}
