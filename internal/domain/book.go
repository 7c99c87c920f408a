// Package domain contains the core business entities for the BookQuest recommendation engine.
package domain

import "strings"

// ReadingLevel is a coarse difficulty classification assigned at load time.
type ReadingLevel string

// Reading levels, in increasing difficulty.
const (
	LevelBeginner     ReadingLevel = "Beginner"
	LevelIntermediate ReadingLevel = "Intermediate"
	LevelAdvanced     ReadingLevel = "Advanced"
)

// DefaultGenre is assigned when no classifier keyword matches a title.
const DefaultGenre = "General Fiction"

// DefaultPublisher is assigned when the source row has no publisher column.
const DefaultPublisher = "Unknown Publisher"

// Book is a normalized catalog entry. Immutable once the catalog is built:
// all fields are populated by the loader and never mutated afterwards, which
// is what makes lock-free concurrent reads safe.
type Book struct {
	// ID is the stable row index within the loaded catalog.
	ID              int          `json:"id"`
	Title           string       `json:"title"`
	Author          string       `json:"author"`
	Publisher       string       `json:"publisher"`
	Year            int          `json:"year"`
	Genre           string       `json:"genre"`
	Rating          float64      `json:"rating"`
	PopularityScore float64      `json:"popularity_score"`
	ReadingLevel    ReadingLevel `json:"reading_level"`
	ImageURL        string       `json:"image"`

	// CombinedText is the indexing document: title, author, genre, publisher
	// and reading level joined with spaces. Derived at load time, used only
	// by the feature indexer and keyword extraction.
	CombinedText string `json:"-"`
}

// MatchesGenre reports whether the book's genre matches the query
// case-insensitively, either against the full genre string or against any
// "/"-delimited part of the query ("Sci-Fi/Horror" matches "Horror" books).
func (b *Book) MatchesGenre(query string) bool {
	genre := strings.ToLower(b.Genre)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	if strings.Contains(genre, query) {
		return true
	}
	for part := range strings.SplitSeq(query, "/") {
		part = strings.TrimSpace(part)
		if part != "" && strings.Contains(genre, part) {
			return true
		}
	}
	return false
}

// GenreSummary is an aggregate row for the genre listing endpoint.
type GenreSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AuthorSummary is an aggregate row for the author listing endpoint.
type AuthorSummary struct {
	Name          string   `json:"name"`
	BookCount     int      `json:"book_count"`
	AverageRating float64  `json:"average_rating"`
	TopGenres     []string `json:"top_genres"`
}
