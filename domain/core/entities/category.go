package entities

// Category is one entry of the fixed post-category catalog (BOOK, FOOD,
// MUSIC, ...). ID is the key value used in post items; Name is the display
// label.
type Category struct {
	ID   string
	Name string
}
