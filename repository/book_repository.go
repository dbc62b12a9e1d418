package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bookstore/models"
)

const bookColumns = `id, title, author, price, stock, cover_image`

// BookRepository stores the catalog.
type BookRepository struct {
	db DBTX
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new catalog row.
func (r *BookRepository) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	if b == nil {
		return nil, errors.New("book is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO books (title, author, price, stock, cover_image) VALUES (?,?,?,?,?)`,
		b.Title, b.Author, b.Price, b.Stock, b.CoverImage)
	if err != nil {
		return nil, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *b
	out.ID = id
	return &out, nil
}

// GetByID fetches a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b models.Book
	err := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.CoverImage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return &b, nil
}

// List returns the catalog in insertion order. A non-empty filter keeps books whose
// title or author contains it, ignoring case.
func (r *BookRepository) List(ctx context.Context, filter string) ([]models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter = strings.TrimSpace(filter)
	var rows *sql.Rows
	var err error
	if filter == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+bookColumns+`
FROM books
WHERE instr(casefold(title), casefold(?1)) > 0
   OR instr(casefold(author), casefold(?1)) > 0
ORDER BY id`, filter)
	}
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanBookRows(rows)
}

// Recent returns the most recently created books first.
func (r *BookRepository) Recent(ctx context.Context, limit int) ([]models.Book, error) {
	return r.listOrdered(ctx, `id DESC`, limit)
}

// LowStock returns books ordered by ascending stock.
func (r *BookRepository) LowStock(ctx context.Context, limit int) ([]models.Book, error) {
	return r.listOrdered(ctx, `stock ASC, id ASC`, limit)
}

func (r *BookRepository) listOrdered(ctx context.Context, orderBy string, limit int) ([]models.Book, error) {
	if limit <= 0 {
		limit = 8
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY `+orderBy+` LIMIT ?`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanBookRows(rows)
}

// Delete removes a book. Cart lines referencing it are removed by the cascade.
// Returns sql.ErrNoRows when no such book exists.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DecrementStock takes quantity copies off the shelf in a single conditional update.
// It reports false, without error, when fewer than quantity copies are left.
func (r *BookRepository) DecrementStock(ctx context.Context, id, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, errors.New("quantity must be positive")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE books SET stock = stock - ?1 WHERE id = ?2 AND stock >= ?1`, quantity, id)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Count returns the number of catalog rows.
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// scanBookRows is a helper to scan rows into Book values.
func scanBookRows(rows *sql.Rows) ([]models.Book, error) {
	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.CoverImage); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
