// Package search provides full-text catalog search using Bleve. It serves
// the browse/autocomplete surface, complementing the recommendation engine's
// similarity index with user-facing keyword search over titles and authors.
package search

import (
	"strconv"

	"github.com/bookquest/bookquest-server/internal/domain"
)

// Document is the Bleve representation of one catalog entry.
type Document struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Genre     string  `json:"genre"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	ImageURL  string  `json:"image_url"`
}

// NewDocument converts a catalog entry into an indexable document. The
// catalog's positional ID becomes the document key.
func NewDocument(bookID int, book *domain.Book) *Document {
	return &Document{
		ID:        strconv.Itoa(bookID),
		Title:     book.Title,
		Author:    book.Author,
		Publisher: book.Publisher,
		Genre:     book.Genre,
		Year:      book.Year,
		Rating:    book.Rating,
		ImageURL:  book.ImageURL,
	}
}

// ToMap converts the document to a map so field names match the index
// mapping keys.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":        d.ID,
		"title":     d.Title,
		"author":    d.Author,
		"publisher": d.Publisher,
		"genre":     d.Genre,
		"year":      d.Year,
		"rating":    d.Rating,
		"image_url": d.ImageURL,
	}
}
