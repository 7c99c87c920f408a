package recommend

import (
	"strings"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/normalize"
)

// Resolver confidence levels, one per match tier.
const (
	ConfidenceExact  = 1.0
	ConfidenceTitle  = 0.8
	ConfidenceAuthor = 0.6
	ConfidenceGenre  = 0.4
)

// Match is a resolved catalog entry with the resolver's confidence that it
// is what the caller meant. Confidence dampens downstream similarity
// scores.
type Match struct {
	ID         int
	Confidence float64
}

// Resolve maps a free-text query to a catalog entry. Tiers are tried in
// strict priority order, stopping at the first hit:
//
//  1. exact case-insensitive title equality
//  2. case-insensitive title substring (first row in catalog order)
//  3. case-insensitive author substring (first row)
//  4. case-insensitive genre substring (first row)
//
// Empty or whitespace-only queries return no match without scanning.
func Resolve(cat *catalog.Catalog, query string) (Match, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Match{}, false
	}
	needle := normalize.Fold(query)
	books := cat.Books()

	for i := range books {
		if normalize.Fold(books[i].Title) == needle {
			return Match{ID: i, Confidence: ConfidenceExact}, true
		}
	}
	for i := range books {
		if strings.Contains(normalize.Fold(books[i].Title), needle) {
			return Match{ID: i, Confidence: ConfidenceTitle}, true
		}
	}
	for i := range books {
		if strings.Contains(normalize.Fold(books[i].Author), needle) {
			return Match{ID: i, Confidence: ConfidenceAuthor}, true
		}
	}
	for i := range books {
		if strings.Contains(normalize.Fold(books[i].Genre), needle) {
			return Match{ID: i, Confidence: ConfidenceGenre}, true
		}
	}
	return Match{}, false
}
