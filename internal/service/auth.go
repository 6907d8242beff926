// Package service provides the authentication and search business logic,
// delegating persistence to repositories and parsing to the dataset package.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/restofinder/internal/metrics"
	"github.com/atinyakov/restofinder/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password. The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// FindByEmail returns the account registered with email or models.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Insert creates a new account. It returns models.ErrDuplicateEmail if the
	// email is taken.
	Insert(ctx context.Context, name, email, passwordHash string) (*models.User, error)
}

// AuthService implements signup and login on top of an AuthRepository.
type AuthService struct {
	repo AuthRepository
	cost int
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo, cost: bcrypt.DefaultCost}
}

// Signup registers a new account with a bcrypt hash of password.
// An email that is already registered yields models.ErrDuplicateEmail and
// leaves the existing account unchanged.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	u, err := s.signup(ctx, name, email, password)
	metrics.RecordAuthAttempt("signup", err == nil)
	return u, err
}

func (s *AuthService) signup(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, models.ErrDuplicateEmail
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Insert(ctx, name, email, string(hash))
}

// Login returns the account whose email and password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.login(ctx, email, password)
	metrics.RecordAuthAttempt("login", err == nil)
	return u, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
