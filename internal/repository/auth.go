// Package repository provides persistence implementations for user accounts.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/atinyakov/restofinder/internal/models"
)

// SQLUserRepository stores user accounts in a relational database. The
// queries run unchanged on PostgreSQL and SQLite.
type SQLUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLUserRepository creates a new SQLUserRepository with the given database connection.
func NewSQLUserRepository(db *sql.DB) *SQLUserRepository {
	return &SQLUserRepository{DB: db}
}

// FindByEmail returns the account registered with email.
// It returns models.ErrUserNotFound when there is none.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// Insert stores a new account with a generated id.
// If the email is already registered, the existing row is left untouched
// and models.ErrDuplicateEmail is returned.
func (r *SQLUserRepository) Insert(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	res, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return nil, models.ErrDuplicateEmail
	}
	return u, nil
}

// Ping checks that the database is reachable.
func (r *SQLUserRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
