// Package seed loads the demo catalog and the default admin account.
// It is reachable only from the operator CLI, never from the storefront.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore/internal/auth"
	"bookstore/internal/db"
	"bookstore/models"
	"bookstore/repository"
)

// AdminUsername is the account Seed guarantees.
const AdminUsername = "admin"

// ErrAdminNameTaken means a regular account already holds AdminUsername.
// Seed refuses to promote it; use bookstorectl promote deliberately instead.
var ErrAdminNameTaken = errors.New("admin username belongs to a non-admin account")

// SampleBooks is the demo catalog.
var SampleBooks = []models.Book{
	{Title: "The Alchemist", Author: "Paulo Coelho", Price: 199, Stock: 10, CoverImage: "alchemist.jpg"},
	{Title: "Clean Code", Author: "Robert C. Martin", Price: 499, Stock: 5, CoverImage: "clean_code.jpg"},
	{Title: "Deep Learning", Author: "Ian Goodfellow", Price: 899, Stock: 3, CoverImage: "deep_learning.jpg"},
	{Title: "Python Crash Course", Author: "Eric Matthes", Price: 299, Stock: 7, CoverImage: "python_crash_course.jpg"},
	{Title: "Artificial Intelligence", Author: "Stuart Russell", Price: 799, Stock: 4, CoverImage: "ai.jpg"},
	{Title: "Data Science Handbook", Author: "Jake VanderPlas", Price: 599, Stock: 6, CoverImage: "data_science_handbook.jpg"},
	{Title: "Deep Learning with Python", Author: "François Chollet", Price: 699, Stock: 5, CoverImage: "dl_with_python.jpg"},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Price: 399, Stock: 8, CoverImage: "pragmatic_programmer.jpg"},
	{Title: "Design Patterns", Author: "Erich Gamma", Price: 499, Stock: 5, CoverImage: "design_patterns.jpg"},
	{Title: "Machine Learning Yearning", Author: "Andrew Ng", Price: 349, Stock: 10, CoverImage: "ml_yearning.jpg"},
	{Title: "Fluent Python", Author: "Luciano Ramalho", Price: 649, Stock: 6, CoverImage: "fluent_python.jpg"},
	{Title: "Introduction to Algorithms", Author: "Cormen et al.", Price: 899, Stock: 4, CoverImage: "intro_to_algorithms.jpg"},
	{Title: "Python for Data Analysis", Author: "Wes McKinney", Price: 399, Stock: 7, CoverImage: "python_for_data_analysis.jpg"},
	{Title: "Hands-On ML", Author: "Aurelien Geron", Price: 749, Stock: 5, CoverImage: "hands_on_ml.jpg"},
	{Title: "Effective Java", Author: "Joshua Bloch", Price: 499, Stock: 8, CoverImage: "effective_java.jpg"},
}

// Result reports what Seed changed.
type Result struct {
	AdminCreated bool
	BooksAdded   int
}

// Seed makes sure the admin account exists and loads SampleBooks into an empty
// catalog. Running it again is harmless: an existing admin keeps its password and
// a non-empty catalog is left alone.
func Seed(ctx context.Context, d *sql.DB, adminPassword string) (*Result, error) {
	if adminPassword == "" {
		return nil, fmt.Errorf("admin password is empty")
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	res := &Result{}
	err = db.WithTx(ctx, d, func(tx *sql.Tx) error {
		users := repository.NewUserRepository(tx)
		books := repository.NewBookRepository(tx)

		u, err := users.GetByUsername(ctx, AdminUsername)
		if err != nil {
			return fmt.Errorf("get admin: %w", err)
		}
		switch {
		case u == nil:
			if _, err := users.Create(ctx, AdminUsername, hash, models.RoleAdmin); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			res.AdminCreated = true
		case !u.IsAdmin():
			return fmt.Errorf("%w: %q is registered with role %q", ErrAdminNameTaken, AdminUsername, u.Role)
		}

		n, err := books.Count(ctx)
		if err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		if n > 0 {
			return nil
		}
		for i := range SampleBooks {
			if _, err := books.Create(ctx, &SampleBooks[i]); err != nil {
				return fmt.Errorf("insert %q: %w", SampleBooks[i].Title, err)
			}
			res.BooksAdded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Reset wipes every table, recreates the schema and seeds it. Destructive.
func Reset(ctx context.Context, d *sql.DB, adminPassword string) (*Result, error) {
	if err := db.Reset(d); err != nil {
		return nil, fmt.Errorf("reset schema: %w", err)
	}
	return Seed(ctx, d, adminPassword)
}
