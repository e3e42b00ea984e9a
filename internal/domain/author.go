package domain

// Author represents a book author in the catalog.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// Summary returns the nested author document embedded in book views.
func (a *Author) Summary() AuthorSummary {
	return AuthorSummary{ID: a.ID, Name: a.Name}
}

// AuthorSummary is the minimal author document nested inside book views.
type AuthorSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
