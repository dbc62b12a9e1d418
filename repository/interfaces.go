package repository

import (
	"context"
	"database/sql"

	"bookstore/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside a caller-owned transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, passwordHash, role string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateRoleByUsername(ctx context.Context, username, role string) error
}

// BookRepositoryI defines operations on Book entities.
type BookRepositoryI interface {
	Create(ctx context.Context, b *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context, filter string) ([]models.Book, error)
	Recent(ctx context.Context, limit int) ([]models.Book, error)
	LowStock(ctx context.Context, limit int) ([]models.Book, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id, quantity int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// CartRepositoryI defines operations on cart lines.
type CartRepositoryI interface {
	Add(ctx context.Context, userID, bookID, quantity int64) error
	GetLine(ctx context.Context, userID, bookID int64) (*models.CartLine, error)
	Items(ctx context.Context, userID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

var (
	_ UserRepositoryI = (*UserRepository)(nil)
	_ BookRepositoryI = (*BookRepository)(nil)
	_ CartRepositoryI = (*CartRepository)(nil)
)
