package catalog

import (
	"sort"
	"strings"

	"github.com/bookquest/bookquest-server/internal/domain"
)

// Catalog is the ordered, read-only collection of normalized books plus
// aggregates computed once at build time. It is never mutated after
// construction; rebuilding produces a fresh Catalog that replaces the old
// one atomically at the engine level.
type Catalog struct {
	books   []domain.Book
	genres  []domain.GenreSummary
	authors []domain.AuthorSummary

	// popular holds book IDs sorted by (popularity_score, rating) desc.
	popular []int
}

func newCatalog(books []domain.Book) *Catalog {
	c := &Catalog{books: books}
	c.buildAggregates()
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Book returns the book with the given ID, or nil when out of range.
// IDs are stable row indexes for the lifetime of the catalog.
func (c *Catalog) Book(id int) *domain.Book {
	if id < 0 || id >= len(c.books) {
		return nil
	}
	return &c.books[id]
}

// Books returns the underlying slice. Callers must treat it as read-only.
func (c *Catalog) Books() []domain.Book {
	return c.books
}

// Genres returns genre aggregates sorted by name.
func (c *Catalog) Genres() []domain.GenreSummary {
	return c.genres
}

// Authors returns author aggregates sorted by name.
func (c *Catalog) Authors() []domain.AuthorSummary {
	return c.authors
}

// PopularIDs returns up to n book IDs ranked by popularity score, then
// rating, then ID for a stable order.
func (c *Catalog) PopularIDs(n int) []int {
	if n > len(c.popular) {
		n = len(c.popular)
	}
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	copy(out, c.popular[:n])
	return out
}

// FilterGenre returns IDs of books matching the genre query (full string
// first, then "/"-delimited parts), sorted by (popularity_score, rating)
// descending.
func (c *Catalog) FilterGenre(genre string) []int {
	query := strings.TrimSpace(genre)
	if query == "" {
		return nil
	}

	// Full-string match first; fall back to each "/" part in order.
	candidates := []string{query}
	for part := range strings.SplitSeq(query, "/") {
		if part = strings.TrimSpace(part); part != "" && part != query {
			candidates = append(candidates, part)
		}
	}

	for _, cand := range candidates {
		ids := c.matchGenre(cand)
		if len(ids) > 0 {
			sort.SliceStable(ids, func(i, j int) bool {
				a, b := &c.books[ids[i]], &c.books[ids[j]]
				if a.PopularityScore != b.PopularityScore {
					return a.PopularityScore > b.PopularityScore
				}
				return a.Rating > b.Rating
			})
			return ids
		}
	}
	return nil
}

func (c *Catalog) matchGenre(genre string) []int {
	needle := strings.ToLower(genre)
	var ids []int
	for i := range c.books {
		if strings.Contains(strings.ToLower(c.books[i].Genre), needle) {
			ids = append(ids, i)
		}
	}
	return ids
}

// FilterAuthor returns IDs of books whose author contains the query
// case-insensitively, sorted by (rating, popularity_score) descending.
func (c *Catalog) FilterAuthor(author string) []int {
	needle := strings.ToLower(strings.TrimSpace(author))
	if needle == "" {
		return nil
	}
	var ids []int
	for i := range c.books {
		if strings.Contains(strings.ToLower(c.books[i].Author), needle) {
			ids = append(ids, i)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := &c.books[ids[i]], &c.books[ids[j]]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.PopularityScore > b.PopularityScore
	})
	return ids
}

// buildAggregates computes the genre/author summaries and the popularity
// ranking. Runs once at construction.
func (c *Catalog) buildAggregates() {
	genreCounts := make(map[string]int)
	type authorAgg struct {
		count       int
		ratingSum   float64
		genreCounts map[string]int
	}
	authorAggs := make(map[string]*authorAgg)

	for i := range c.books {
		b := &c.books[i]
		genreCounts[b.Genre]++

		agg := authorAggs[b.Author]
		if agg == nil {
			agg = &authorAgg{genreCounts: make(map[string]int)}
			authorAggs[b.Author] = agg
		}
		agg.count++
		agg.ratingSum += b.Rating
		agg.genreCounts[b.Genre]++
	}

	c.genres = make([]domain.GenreSummary, 0, len(genreCounts))
	for name, count := range genreCounts {
		c.genres = append(c.genres, domain.GenreSummary{Name: name, Count: count})
	}
	sort.Slice(c.genres, func(i, j int) bool { return c.genres[i].Name < c.genres[j].Name })

	c.authors = make([]domain.AuthorSummary, 0, len(authorAggs))
	for name, agg := range authorAggs {
		c.authors = append(c.authors, domain.AuthorSummary{
			Name:          name,
			BookCount:     agg.count,
			AverageRating: agg.ratingSum / float64(agg.count),
			TopGenres:     topGenres(agg.genreCounts, 3),
		})
	}
	sort.Slice(c.authors, func(i, j int) bool { return c.authors[i].Name < c.authors[j].Name })

	c.popular = make([]int, len(c.books))
	for i := range c.popular {
		c.popular[i] = i
	}
	sort.SliceStable(c.popular, func(i, j int) bool {
		a, b := &c.books[c.popular[i]], &c.books[c.popular[j]]
		if a.PopularityScore != b.PopularityScore {
			return a.PopularityScore > b.PopularityScore
		}
		return a.Rating > b.Rating
	})
}

// topGenres returns up to n genre names ranked by count, ties broken by
// name for determinism.
func topGenres(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
