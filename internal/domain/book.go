package domain

// Book represents a catalog entry. A book references exactly one author and
// participates in many-to-many relations with genres and collections.
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Annotation string `json:"annotation,omitempty"`
	AuthorID   int64  `json:"author_id"`
}

// BookRow is the flat book document nested inside author, genre, and
// collection views, where neither rating nor genre data is needed.
type BookRow struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Annotation string `json:"annotation,omitempty"`
}

// Row returns the flat nested form of the book.
func (b *Book) Row() BookRow {
	return BookRow{ID: b.ID, Title: b.Title, Year: b.Year, Annotation: b.Annotation}
}
