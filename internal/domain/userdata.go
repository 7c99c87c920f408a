package domain

import "time"

// Favorite is a book a user saved, keyed by title since catalog IDs are
// positional and regenerate on every load.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookTitle string    `json:"bookTitle"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRating is a user's own score for a book, on the catalog's 0-10 scale.
type UserRating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookTitle string    `json:"bookTitle"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SearchEvent is an analytics record of one recommendation query.
type SearchEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	Query       string    `json:"query"`
	Method      string    `json:"method"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
