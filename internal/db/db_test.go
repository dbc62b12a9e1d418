package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func openMem(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOpen_AppliesMigrations(t *testing.T) {
	d := openMem(t, "dbopen")
	v, err := Version(d)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 1 {
		t.Fatalf("version = %d, want 1", v)
	}
	for _, table := range []string{"users", "books", "cart"} {
		var n int
		if err := d.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
	}
	// Opening again must not re-apply anything.
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
}

func TestRollbackAll_ThenClassifyNotInitialized(t *testing.T) {
	d := openMem(t, "dbrollback")
	if err := RollbackAll(d); err != nil {
		t.Fatalf("rollback all: %v", err)
	}
	if v, _ := Version(d); v != 0 {
		t.Fatalf("version after rollback = %d", v)
	}
	_, err := d.Exec(`SELECT * FROM books`)
	if err == nil {
		t.Fatalf("expected error querying dropped table")
	}
	if !errors.Is(Classify(err), ErrNotInitialized) {
		t.Fatalf("Classify(%v) is not ErrNotInitialized", err)
	}
	if rolled, err := RollbackLast(d); err != nil || rolled {
		t.Fatalf("rollback on empty schema: rolled=%v err=%v", rolled, err)
	}
}

func TestReset_RecreatesEmptySchema(t *testing.T) {
	d := openMem(t, "dbreset")
	if _, err := d.Exec(`INSERT INTO books (title, author, price, stock) VALUES ('t','a',1,1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := Reset(d); err != nil {
		t.Fatalf("reset: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("books after reset = %d", n)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	d := openMem(t, "dbtx")
	ctx := context.Background()
	boom := errors.New("boom")
	err := WithTx(ctx, d, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO books (title) VALUES ('gone')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}
	var n int
	_ = d.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n)
	if n != 0 {
		t.Fatalf("insert was not rolled back: %d rows", n)
	}

	if err := WithTx(ctx, d, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO books (title) VALUES ('kept')`)
		return err
	}); err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}
	_ = d.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n)
	if n != 1 {
		t.Fatalf("rows after commit = %d", n)
	}
}

func TestStockCheckConstraint(t *testing.T) {
	d := openMem(t, "dbcheck")
	if _, err := d.Exec(`INSERT INTO books (title, stock) VALUES ('neg', -1)`); err == nil {
		t.Fatalf("expected CHECK violation for negative stock")
	}
}

func TestDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"app.db", "file:app.db?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"},
		{"file:x.db", "file:x.db?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"},
		{"file:m?mode=memory&cache=shared", "file:m?mode=memory&cache=shared&_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"},
	}
	for _, c := range cases {
		if got := dsn(c.in); got != c.want {
			t.Errorf("dsn(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
