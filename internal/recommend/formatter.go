package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/normalize"
)

// genreKeywordBank maps a genre to thematic terms that, when present in an
// entry's text, are promoted into its keyword list.
var genreKeywordBank = map[string][]string{
	"Fantasy":         {"magic", "wizard", "dragon", "kingdom", "quest"},
	"Mystery":         {"detective", "murder", "clue", "investigation", "mystery"},
	"Romance":         {"love", "heart", "passion", "wedding", "relationship"},
	"Science Fiction": {"future", "space", "alien", "technology", "robot"},
	"Horror":          {"horror", "ghost", "dark", "fear", "nightmare", "haunted"},
	"Adventure":       {"adventure", "journey", "explore", "treasure", "hero"},
}

const maxKeywords = 5

// ExtractKeywords pulls the most frequent meaningful tokens from an entry's
// combined text, boosting genre-bank terms that appear in it, capped at five.
func ExtractKeywords(text, genre string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	record := func(tok string) {
		if _, seen := counts[tok]; !seen {
			order[tok] = len(order)
		}
		counts[tok]++
	}

	lowered := strings.ToLower(text)
	for _, tok := range normalize.ContentTokens(text) {
		if len(tok) >= 4 && isAlphabetic(tok) {
			record(tok)
		}
	}
	for _, kw := range lookupGenreBank(genre) {
		if strings.Contains(lowered, kw) {
			record(kw)
		}
	}
	if len(counts) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return order[tokens[i]] < order[tokens[j]]
	})
	if len(tokens) > maxKeywords {
		tokens = tokens[:maxKeywords]
	}
	return tokens
}

func lookupGenreBank(genre string) []string {
	if kws, ok := genreKeywordBank[genre]; ok {
		return kws
	}
	// Split genres like "Sci-Fi/Horror" contribute each side's bank.
	if strings.Contains(genre, "/") {
		var kws []string
		for _, part := range strings.Split(genre, "/") {
			kws = append(kws, genreKeywordBank[strings.TrimSpace(part)]...)
		}
		return kws
	}
	return nil
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// BuildReason renders the human-readable explanation attached to each
// recommendation, templated per method.
func BuildReason(method domain.Method, rec *domain.Book, queryTitle string) string {
	switch method {
	case domain.MethodGenre:
		if queryTitle != "" {
			return fmt.Sprintf("Same genre as '%s' (%s)", queryTitle, rec.Genre)
		}
		return fmt.Sprintf("Matches your interest in %s books", rec.Genre)
	case domain.MethodAuthor:
		return "By the same author you searched for"
	case domain.MethodCollaborative:
		return fmt.Sprintf("Readers who liked '%s' also enjoyed this", queryTitle)
	case domain.MethodPopular:
		return fmt.Sprintf("Popular book in %s genre", rec.Genre)
	default:
		return fmt.Sprintf("Similar themes and content to '%s'", queryTitle)
	}
}

// BuildFactors produces the per-method scoring breakdown displayed with a
// recommendation. Genre and author use fixed tables; everything else scales
// off the similarity score.
func BuildFactors(method domain.Method, similarity float64) []domain.Factor {
	switch method {
	case domain.MethodGenre:
		return []domain.Factor{
			{Name: "Genre Match", Score: 85},
			{Name: "Content Similarity", Score: 72},
			{Name: "User Preference", Score: 68},
			{Name: "Rating Pattern", Score: 75},
		}
	case domain.MethodAuthor:
		return []domain.Factor{
			{Name: "Author Match", Score: 90},
			{Name: "Writing Style", Score: 78},
			{Name: "Genre Similarity", Score: 65},
			{Name: "Publication Era", Score: 70},
		}
	default:
		base := int(math.Round(similarity * 100))
		return []domain.Factor{
			{Name: "Content Match", Score: base},
			{Name: "Genre Similarity", Score: max(50, base-10)},
			{Name: "User Preference", Score: max(45, base-20)},
			{Name: "Collaborative Filter", Score: max(40, base-30)},
		}
	}
}

// Format assembles the outward recommendation record for a book.
func Format(rec *domain.Book, method domain.Method, similarity float64, queryTitle string) domain.Recommendation {
	return domain.Recommendation{
		Title:      rec.Title,
		Author:     rec.Author,
		Rating:     rec.Rating,
		ImageURL:   rec.ImageURL,
		Genre:      rec.Genre,
		Similarity: round2(similarity),
		Method:     method,
		Reason:     BuildReason(method, rec, queryTitle),
		Keywords:   ExtractKeywords(rec.CombinedText, rec.Genre),
		Factors:    BuildFactors(method, similarity),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
