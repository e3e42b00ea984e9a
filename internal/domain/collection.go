package domain

// Collection represents a user-owned grouping of books.
// Collections are private to their owner; only the owner may read or modify them.
type Collection struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	UserID int64  `json:"user_id"`
}

// DefaultCollectionTitles are seeded for every newly registered user.
// Seeding happens once at registration; users may rename or delete them freely.
var DefaultCollectionTitles = []string{"to read", "reading", "read"}

// IsOwnedBy reports whether the given user owns this collection.
func (c *Collection) IsOwnedBy(userID int64) bool {
	return c.UserID == userID
}
