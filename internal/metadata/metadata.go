// Package metadata defines the shared types for external book-metadata
// providers. Providers are queried by title with best-fuzzy matching and
// must degrade to ErrNotFound rather than propagate transport failures as
// hard errors to request handlers.
package metadata

import (
	"errors"
	"strings"

	"github.com/bookquest/bookquest-server/internal/normalize"
)

// ErrNotFound signals that a provider had no acceptable match for a title.
// Handlers convert it into a structured "not found" response.
var ErrNotFound = errors.New("metadata: not found")

// BookMetadata is the provider-neutral enrichment record for a book.
type BookMetadata struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Description   string   `json:"description,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedYear int      `json:"publishedYear,omitempty"`
	ISBNs         []string `json:"isbns,omitempty"`
	CoverURL      string   `json:"coverUrl,omitempty"`
	Source        string   `json:"source"`
}

// TitleScore rates how well a candidate title matches the requested one.
// 1.0 is a case/accent-insensitive exact match, 0.7 a substring either way,
// 0.4 a shared leading word, 0 no match. Used to pick the best of a
// provider's fuzzy results.
func TitleScore(requested, candidate string) float64 {
	req := normalize.Fold(requested)
	cand := normalize.Fold(candidate)
	switch {
	case req == "" || cand == "":
		return 0
	case req == cand:
		return 1.0
	case strings.Contains(cand, req) || strings.Contains(req, cand):
		return 0.7
	}
	reqWords := strings.Fields(req)
	candWords := strings.Fields(cand)
	if len(reqWords) > 0 && len(candWords) > 0 && reqWords[0] == candWords[0] {
		return 0.4
	}
	return 0
}

// minTitleScore is the acceptance threshold for fuzzy matches.
const minTitleScore = 0.4

// BestMatch picks the candidate whose title best matches the requested one.
// Returns false when nothing clears the acceptance threshold.
func BestMatch(requested string, candidates []BookMetadata) (*BookMetadata, bool) {
	bestScore := 0.0
	bestIdx := -1
	for i := range candidates {
		if score := TitleScore(requested, candidates[i].Title); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < minTitleScore {
		return nil, false
	}
	return &candidates[bestIdx], true
}
