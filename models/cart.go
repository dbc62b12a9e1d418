package models

// CartLine is one (user, book) pair in a cart. There is at most one line per pair.
type CartLine struct {
	ID       int64 `db:"id" json:"id"`
	UserID   int64 `db:"user_id" json:"user_id"`
	BookID   int64 `db:"book_id" json:"book_id"`
	Quantity int64 `db:"quantity" json:"quantity"`
}

// CartItem is a cart line joined with the book it references.
type CartItem struct {
	LineID   int64   `json:"line_id"`
	BookID   int64   `json:"book_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal sums the line totals of items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
