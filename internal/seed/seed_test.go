package seed

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/auth"
	"bookstore/internal/testutil"
	"bookstore/models"
	"bookstore/repository"
)

func TestSeed_IsIdempotent(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "seedidem")
	ctx := context.Background()

	res, err := Seed(ctx, d, "adm123")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !res.AdminCreated || res.BooksAdded != len(SampleBooks) {
		t.Fatalf("first seed result: %+v", res)
	}

	res, err = Seed(ctx, d, "other")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if res.AdminCreated || res.BooksAdded != 0 {
		t.Fatalf("second seed changed data: %+v", res)
	}

	u, err := repository.NewUserRepository(d).GetByUsername(ctx, AdminUsername)
	if err != nil || u == nil || u.Role != models.RoleAdmin {
		t.Fatalf("admin missing: %v %+v", err, u)
	}
	if !auth.CheckPassword(u.PasswordHash, "adm123") {
		t.Fatalf("admin password changed by second seed")
	}
	if n, _ := repository.NewBookRepository(d).Count(ctx); n != int64(len(SampleBooks)) {
		t.Fatalf("book count = %d", n)
	}
}

func TestReset_WipesAndReseeds(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "seedreset")
	ctx := context.Background()
	users := repository.NewUserRepository(d)

	if _, err := Seed(ctx, d, "adm123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := users.Create(ctx, "eve", "h", models.RoleUser); err != nil {
		t.Fatalf("create eve: %v", err)
	}

	res, err := Reset(ctx, d, "adm123")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !res.AdminCreated || res.BooksAdded != len(SampleBooks) {
		t.Fatalf("reset result: %+v", res)
	}
	if u, _ := users.GetByUsername(ctx, "eve"); u != nil {
		t.Fatalf("reset kept user eve")
	}
	deep, err := repository.NewBookRepository(d).List(ctx, "Deep Learning")
	if err != nil || len(deep) != 2 || deep[0].Stock != 3 {
		t.Fatalf("sample catalog mismatch: %v %+v", err, deep)
	}
}

func TestSeed_RejectsEmptyPassword(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "seedempty")
	if _, err := Seed(context.Background(), d, ""); err == nil {
		t.Fatalf("expected error for empty admin password")
	}
}

func TestSeed_RefusesNonAdminHoldingAdminName(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "seedsquat")
	ctx := context.Background()
	users := repository.NewUserRepository(d)
	if _, err := users.Create(ctx, AdminUsername, "h", models.RoleUser); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := Seed(ctx, d, "adm123"); !errors.Is(err, ErrAdminNameTaken) {
		t.Fatalf("err = %v, want ErrAdminNameTaken", err)
	}
	u, _ := users.GetByUsername(ctx, AdminUsername)
	if u == nil || u.IsAdmin() {
		t.Fatalf("account was promoted by seed: %+v", u)
	}
	if n, _ := repository.NewBookRepository(d).Count(ctx); n != 0 {
		t.Fatalf("catalog loaded despite failure: %d books", n)
	}
}
