package shop

import (
	"context"
	"fmt"

	"bookstore/models"
)

// Storefront is everything the catalog page shows.
type Storefront struct {
	Query       string
	Books       []models.Book
	NewArrivals []models.Book
	Bestsellers []models.Book
}

// ListBooks returns the catalog, optionally filtered by a case-insensitive
// substring of title or author.
func (s *Service) ListBooks(ctx context.Context, filter string) ([]models.Book, error) {
	list, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return list, nil
}

// RecentBooks returns the newest books first.
func (s *Service) RecentBooks(ctx context.Context, limit int) ([]models.Book, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	list, err := s.books.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent books: %w", err)
	}
	return list, nil
}

// LowStockBooks returns books by ascending stock. The storefront labels these
// "bestsellers"; stock is only a proxy for sales.
func (s *Service) LowStockBooks(ctx context.Context, limit int) ([]models.Book, error) {
	if limit <= 0 {
		limit = DefaultLowStockLimit
	}
	list, err := s.books.LowStock(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock books: %w", err)
	}
	return list, nil
}

// GetBook returns one book or ErrNotFound.
func (s *Service) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// Storefront assembles the catalog page.
func (s *Service) Storefront(ctx context.Context, query string) (*Storefront, error) {
	books, err := s.ListBooks(ctx, query)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentBooks(ctx, DefaultRecentLimit)
	if err != nil {
		return nil, err
	}
	low, err := s.LowStockBooks(ctx, DefaultLowStockLimit)
	if err != nil {
		return nil, err
	}
	return &Storefront{Query: query, Books: books, NewArrivals: recent, Bestsellers: low}, nil
}
