package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"bookstore/internal/auth"
	"bookstore/models"
)

// BookInput is the admin form for a new catalog entry.
type BookInput struct {
	Title      string
	Author     string
	Price      float64
	Stock      int64
	CoverImage string
}

// MaxPrice is the largest price the catalog accepts.
const MaxPrice = 1_000_000

// ParseBookForm converts raw form values. Empty or unparsable price and stock
// become 0 without an error; negative values are raised to 0. Prices that are
// not finite or exceed MaxPrice count as unparsable.
func ParseBookForm(title, author, price, stock, cover string) BookInput {
	in := BookInput{
		Title:      strings.TrimSpace(title),
		Author:     strings.TrimSpace(author),
		CoverImage: strings.TrimSpace(cover),
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(price), 64); err == nil && validPrice(v) {
		in.Price = v
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(stock), 10, 64); err == nil && v > 0 {
		in.Stock = v
	}
	return in
}

// AdminBooks lists the catalog for the admin page.
func (s *Service) AdminBooks(ctx context.Context) ([]models.Book, error) {
	if _, err := auth.RequireAdmin(ctx, s.users); err != nil {
		return nil, err
	}
	return s.ListBooks(ctx, "")
}

// AddBook inserts a catalog entry. Admin only.
func (s *Service) AddBook(ctx context.Context, in BookInput) (*models.Book, error) {
	p, err := auth.RequireAdmin(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidInput
	}
	if !validPrice(in.Price) {
		in.Price = 0
	}
	if in.Stock < 0 {
		in.Stock = 0
	}
	b, err := s.books.Create(ctx, &models.Book{
		Title:      strings.TrimSpace(in.Title),
		Author:     in.Author,
		Price:      in.Price,
		Stock:      in.Stock,
		CoverImage: in.CoverImage,
	})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.log.InfoContext(ctx, "book added", slog.String("admin", p.Username), slog.Int64("book_id", b.ID))
	return b, nil
}

// DeleteBook removes a catalog entry and any cart lines pointing at it. Admin only.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	p, err := auth.RequireAdmin(ctx, s.users)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete book: %w", err)
	}
	s.log.InfoContext(ctx, "book deleted", slog.String("admin", p.Username), slog.Int64("book_id", id))
	return nil
}

func validPrice(v float64) bool {
	return v > 0 && v <= MaxPrice && !math.IsInf(v, 0) && !math.IsNaN(v)
}
