package domain

// Genre represents a book genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
