package models

// Book is a catalog entry. Stock never drops below zero.
type Book struct {
	ID         int64   `db:"id" json:"id"`
	Title      string  `db:"title" json:"title"`
	Author     string  `db:"author" json:"author"`
	Price      float64 `db:"price" json:"price"`
	Stock      int64   `db:"stock" json:"stock"`
	CoverImage string  `db:"cover_image" json:"cover_image,omitempty"`
}

// InStock reports whether at least one copy is available.
func (b *Book) InStock() bool {
	return b != nil && b.Stock > 0
}
