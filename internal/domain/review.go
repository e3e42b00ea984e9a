package domain

import "time"

// Rating bounds enforced before any review row is persisted.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user's rating-and-text review of a book.
type Review struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	BookID  int64     `json:"book_id"`
	Rating  int       `json:"rating"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// RatingInRange reports whether the rating is within [MinRating, MaxRating].
func (r *Review) RatingInRange() bool {
	return r.Rating >= MinRating && r.Rating <= MaxRating
}

// MeanRating computes the arithmetic mean of the given reviews' ratings.
// Returns exactly 0 when the slice is empty, never a division error.
func MeanRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
