package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookstore/models"
)

// CartRepository stores per-user cart lines.
type CartRepository struct {
	db DBTX
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// Add puts quantity copies of a book in the user's cart. The first add creates the
// line; later adds increment it, so a (user, book) pair never has two lines.
func (r *CartRepository) Add(ctx context.Context, userID, bookID, quantity int64) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart (user_id, book_id, quantity) VALUES (?1, ?2, ?3)
ON CONFLICT (user_id, book_id) DO UPDATE SET quantity = quantity + excluded.quantity`, userID, bookID, quantity)
	return classify(err)
}

// GetLine returns the line for (userID, bookID), or nil when absent.
func (r *CartRepository) GetLine(ctx context.Context, userID, bookID int64) (*models.CartLine, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var l models.CartLine
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, book_id, quantity FROM cart WHERE user_id = ? AND book_id = ?`, userID, bookID).
		Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return &l, nil
}

// Items returns the user's cart lines joined with book details, oldest line first.
func (r *CartRepository) Items(ctx context.Context, userID int64) ([]models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, b.id, b.title, b.author, b.price, c.quantity
FROM cart c
JOIN books b ON b.id = c.book_id
WHERE c.user_id = ?
ORDER BY c.id`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	var out []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.LineID, &it.BookID, &it.Title, &it.Author, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes every line in the user's cart and returns how many were removed.
func (r *CartRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ?`, userID)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
