package shop

import (
	"context"
	"errors"
	"math"
	"testing"

	"bookstore/internal/seed"
)

func TestAddBook_NonAdminForbiddenAndCatalogUnchanged(t *testing.T) {
	s := newSeededService(t)
	ctx := registerCtx(t, s, "alice")

	_, err := s.AddBook(ctx, BookInput{Title: "Sneaky", Price: 1, Stock: 1})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := s.AddBook(context.Background(), BookInput{Title: "Anon"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v, want ErrUnauthenticated", err)
	}
	list, _ := s.ListBooks(context.Background(), "")
	if len(list) != len(seed.SampleBooks) {
		t.Fatalf("catalog changed: %d books", len(list))
	}
	if _, err := s.AdminBooks(ctx); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin listing err = %v, want ErrForbidden", err)
	}
	b := bookByTitle(t, s, "Clean Code")
	if err := s.DeleteBook(ctx, b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete err = %v, want ErrForbidden", err)
	}
}

func TestAdmin_AddAndDeleteBook(t *testing.T) {
	s := newSeededService(t)
	admin := adminCtx(t, s)

	b, err := s.AddBook(admin, ParseBookForm("Go in Action", "", "", "abc", ""))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if b.ID == 0 || b.Price != 0 || b.Stock != 0 || b.Author != "" {
		t.Fatalf("unexpected book: %+v", b)
	}
	list, err := s.AdminBooks(admin)
	if err != nil || len(list) != len(seed.SampleBooks)+1 {
		t.Fatalf("admin books: %v len=%d", err, len(list))
	}

	// A user holding the book in their cart loses the line when the book goes away.
	user := registerCtx(t, s, "alice")
	if err := s.AddToCart(user, b.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if err := s.DeleteBook(admin, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBook(context.Background(), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("book still present: %v", err)
	}
	if cart, _ := s.ViewCart(user); !cart.Empty() {
		t.Fatalf("orphaned cart line: %+v", cart.Items)
	}
	if err := s.DeleteBook(admin, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := s.AddBook(admin, BookInput{Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty title err = %v, want ErrInvalidInput", err)
	}
}

func TestParseBookForm(t *testing.T) {
	cases := []struct {
		name         string
		price, stock string
		wantPrice    float64
		wantStock    int64
	}{
		{"valid", "12.5", "3", 12.5, 3},
		{"empty", "", "", 0, 0},
		{"garbage", "cheap", "many", 0, 0},
		{"negative", "-4", "-2", 0, 0},
		{"padded", " 7 ", " 9 ", 7, 9},
		{"inf", "inf", "1", 0, 1},
		{"infinity", "Infinity", "1", 0, 1},
		{"nan", "NaN", "1", 0, 1},
		{"overflow", "1e308", "1", 0, 1},
		{"ceiling", "1000000", "1", MaxPrice, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := ParseBookForm(" T ", " A ", c.price, c.stock, " c.jpg ")
			if in.Title != "T" || in.Author != "A" || in.CoverImage != "c.jpg" {
				t.Fatalf("text fields not trimmed: %+v", in)
			}
			if in.Price != c.wantPrice || in.Stock != c.wantStock {
				t.Fatalf("got price=%v stock=%v, want %v %v", in.Price, in.Stock, c.wantPrice, c.wantStock)
			}
		})
	}
}

func TestAddBook_NonFinitePriceStoredAsZero(t *testing.T) {
	s := newSeededService(t)
	admin := adminCtx(t, s)

	b, err := s.AddBook(admin, BookInput{Title: "Unbounded", Price: math.Inf(1), Stock: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.GetBook(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 0 {
		t.Fatalf("price = %v, want 0", got.Price)
	}
}
