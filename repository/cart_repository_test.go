package repository

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/testutil"
	"bookstore/models"
)

func TestCartRepository_AddIncrementsSingleLine(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "cartadd")
	users := NewUserRepository(d)
	books := NewBookRepository(d)
	cart := NewCartRepository(d)
	ctx := context.Background()

	u, err := users.Create(ctx, "carol", "h", models.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	b := seedBooks(t, books, models.Book{Title: "Clean Code", Author: "Robert C. Martin", Price: 499, Stock: 5})[0]

	for i := 0; i < 2; i++ {
		if err := cart.Add(ctx, u.ID, b.ID, 1); err != nil {
			t.Fatalf("add[%d]: %v", i, err)
		}
	}
	items, err := cart.Items(ctx, u.ID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("want one line with quantity 2, got %+v", items)
	}
	if items[0].Title != "Clean Code" || items[0].Price != 499 || items[0].LineTotal() != 998 {
		t.Fatalf("join mismatch: %+v", items[0])
	}
	line, err := cart.GetLine(ctx, u.ID, b.ID)
	if err != nil || line == nil || line.Quantity != 2 {
		t.Fatalf("get line: %v %+v", err, line)
	}

	if err := cart.Add(ctx, u.ID, 4242, 1); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("add unknown book err = %v, want ErrMissingReference", err)
	}
}

func TestCartRepository_ClearAndCascade(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "cartclear")
	users := NewUserRepository(d)
	books := NewBookRepository(d)
	cart := NewCartRepository(d)
	ctx := context.Background()

	u1, _ := users.Create(ctx, "u1", "h", "")
	u2, _ := users.Create(ctx, "u2", "h", "")
	bs := seedBooks(t, books, models.Book{Title: "A", Stock: 1}, models.Book{Title: "B", Stock: 1})

	for _, b := range bs {
		if err := cart.Add(ctx, u1.ID, b.ID, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := cart.Add(ctx, u2.ID, bs[0].ID, 3); err != nil {
		t.Fatalf("add u2: %v", err)
	}

	// Deleting a book drops the lines that reference it.
	if err := books.Delete(ctx, bs[1].ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}
	items, _ := cart.Items(ctx, u1.ID)
	if len(items) != 1 || items[0].BookID != bs[0].ID {
		t.Fatalf("cascade failed: %+v", items)
	}

	n, err := cart.Clear(ctx, u1.ID)
	if err != nil || n != 1 {
		t.Fatalf("clear: n=%d err=%v", n, err)
	}
	if items, _ := cart.Items(ctx, u1.ID); len(items) != 0 {
		t.Fatalf("cart not empty after clear: %+v", items)
	}
	if items, _ := cart.Items(ctx, u2.ID); len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("other user's cart touched: %+v", items)
	}
}
