// Package shop implements the storefront operations on top of the repositories.
// AddToCart and Checkout each run inside one transaction.
package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookstore/internal/auth"
	"bookstore/models"
	"bookstore/repository"
)

// Defaults for the storefront side panels.
const (
	DefaultRecentLimit   = 8
	DefaultLowStockLimit = 8
)

// Service bundles the store and implements the storefront operations.
type Service struct {
	db    *sql.DB
	users *repository.UserRepository
	books *repository.BookRepository
	carts *repository.CartRepository
	log   *slog.Logger
}

// NewService creates a Service over d. A nil logger falls back to slog.Default().
func NewService(d *sql.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:    d,
		users: repository.NewUserRepository(d),
		books: repository.NewBookRepository(d),
		carts: repository.NewCartRepository(d),
		log:   log,
	}
}

// Users exposes the user repository for role checks at the route boundary.
func (s *Service) Users() *repository.UserRepository { return s.users }

// Register creates an account with role "user".
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, username, hash, models.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and returns the identity to store in the session.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*auth.Principal, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// Ping reports whether the store is reachable and migrated.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if _, err := s.books.Count(ctx); err != nil {
		return err
	}
	return nil
}
