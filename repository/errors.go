package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"bookstore/internal/db"
)

var (
	// ErrDuplicate is returned when a UNIQUE constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a foreign key points at a missing row.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// classify translates SQLite constraint errors into repository errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		case sqlite3.ErrConstraintForeignKey:
			return ErrMissingReference
		}
	}
	return db.Classify(err)
}
