package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bookstore/internal/auth"
	"bookstore/internal/db"
	"bookstore/models"
	"bookstore/repository"
)

// Cart is a user's cart with its computed total.
type Cart struct {
	Items []models.CartItem
	Total float64
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return c == nil || len(c.Items) == 0 }

// CheckoutResult describes what a checkout did. Total is the cart total before
// any stock was taken, including lines that were skipped.
type CheckoutResult struct {
	Total     float64
	Fulfilled []models.CartItem
	Skipped   []models.CartItem
}

// AddToCart puts one copy of bookID in the caller's cart.
func (s *Service) AddToCart(ctx context.Context, bookID int64) error {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		b, err := repository.NewBookRepository(tx).GetByID(ctx, bookID)
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}
		if b == nil {
			return ErrNotFound
		}
		carts := repository.NewCartRepository(tx)
		if err := carts.Add(ctx, p.UserID, bookID, 1); err != nil {
			if errors.Is(err, repository.ErrMissingReference) {
				// The book exists, so the session points at a user that is gone.
				return ErrUnauthenticated
			}
			return fmt.Errorf("add to cart: %w", err)
		}
		line, err := carts.GetLine(ctx, p.UserID, bookID)
		if err != nil {
			return fmt.Errorf("get cart line: %w", err)
		}
		if line != nil {
			s.log.DebugContext(ctx, "added to cart",
				slog.Int64("user_id", p.UserID),
				slog.Int64("book_id", bookID),
				slog.Int64("quantity", line.Quantity))
		}
		return nil
	})
}

// ViewCart returns the caller's cart joined with book details.
func (s *Service) ViewCart(ctx context.Context) (*Cart, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.Items(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}
	return &Cart{Items: items, Total: models.CartTotal(items)}, nil
}

// Checkout converts the caller's cart into stock decrements and empties the cart.
//
// Each line is taken with a single conditional update, so concurrent checkouts
// can never push stock below zero. Lines without enough stock are skipped and
// reported in the result; the cart is cleared either way.
func (s *Service) Checkout(ctx context.Context) (*CheckoutResult, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	res := &CheckoutResult{}
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		carts := repository.NewCartRepository(tx)
		books := repository.NewBookRepository(tx)

		items, err := carts.Items(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("cart items: %w", err)
		}
		res.Total = models.CartTotal(items)
		for _, it := range items {
			ok, err := books.DecrementStock(ctx, it.BookID, it.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock of book %d: %w", it.BookID, err)
			}
			if ok {
				res.Fulfilled = append(res.Fulfilled, it)
			} else {
				res.Skipped = append(res.Skipped, it)
			}
		}
		if _, err := carts.Clear(ctx, p.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, it := range res.Skipped {
		s.log.WarnContext(ctx, "checkout skipped line",
			slog.Int64("user_id", p.UserID),
			slog.Int64("book_id", it.BookID),
			slog.Int64("quantity", it.Quantity))
	}
	s.log.InfoContext(ctx, "checkout",
		slog.Int64("user_id", p.UserID),
		slog.Float64("total", res.Total),
		slog.Int("fulfilled", len(res.Fulfilled)),
		slog.Int("skipped", len(res.Skipped)))
	return res, nil
}

// PaymentSummary is the cart as shown on the payment page before confirming.
func (s *Service) PaymentSummary(ctx context.Context) (*Cart, error) {
	return s.ViewCart(ctx)
}
