package recommend

import (
	"math"
	"math/rand"
	"sort"

	"github.com/bookquest/bookquest-server/internal/catalog"
)

// Minimum interaction-matrix dimensions for the collaborative model to be
// usable. Below either bound the orchestrator degrades to content-based
// results.
const (
	minCollaborativeUsers = 50
	minCollaborativeBooks = 50
)

// collaborativeSeed fixes the synthetic interaction data.
const collaborativeSeed = 42

// neighborUsers is how many similar users are aggregated per query.
const neighborUsers = 15

// CollaborativeModel holds a synthetic user-item interaction structure:
// each user rates a random subset of books around the book's synthetic
// rating. Built once alongside the catalog; read-only afterwards.
type CollaborativeModel struct {
	// ratings[u] maps book ID -> rating in [1, 5] for user u.
	ratings []map[int]float64
	// norms[u] is the L2 norm of user u's rating vector.
	norms []float64
	// raters[bookID] lists the users who rated that book.
	raters map[int][]int
}

// BuildCollaborative constructs the synthetic interaction matrix. Returns
// nil when the catalog or requested population is too small to produce a
// meaningful matrix; callers treat nil as "model unavailable".
func BuildCollaborative(cat *catalog.Catalog, numUsers int) *CollaborativeModel {
	if numUsers < minCollaborativeUsers || cat.Len() < minCollaborativeBooks {
		return nil
	}

	rng := rand.New(rand.NewSource(collaborativeSeed)) //#nosec G404 -- reproducible synthetic data, not security-sensitive
	books := cat.Books()

	m := &CollaborativeModel{
		ratings: make([]map[int]float64, numUsers),
		norms:   make([]float64, numUsers),
		raters:  make(map[int][]int),
	}

	for u := range numUsers {
		// Between 10 and 50 rated books per user.
		n := 10 + rng.Intn(41)
		if n > cat.Len() {
			n = cat.Len()
		}
		sampled := rng.Perm(cat.Len())[:n]

		userRatings := make(map[int]float64, n)
		var normSq float64
		for _, bookID := range sampled {
			// Centered on half the book's synthetic rating, with noise,
			// clamped to the 1-5 interaction scale.
			r := books[bookID].Rating/2 + rng.NormFloat64()*0.5
			r = math.Max(1, math.Min(5, r))
			userRatings[bookID] = r
			normSq += r * r
			m.raters[bookID] = append(m.raters[bookID], u)
		}
		m.ratings[u] = userRatings
		m.norms[u] = math.Sqrt(normSq)
	}

	return m
}

// Users returns the synthetic population size.
func (m *CollaborativeModel) Users() int {
	return len(m.ratings)
}

// ScoredBook is a collaborative recommendation candidate.
type ScoredBook struct {
	ID         int
	Similarity float64 // normalized aggregate score in [0, 1]
}

// Recommend finds the users most similar to the query entry's interaction
// profile, aggregates their highest-rated books, deduplicates, and excludes
// the query entry. Returns nil when nobody rated the query entry.
func (m *CollaborativeModel) Recommend(queryID, limit int) []ScoredBook {
	if m == nil || limit <= 0 {
		return nil
	}
	raters := m.raters[queryID]
	if len(raters) == 0 {
		return nil
	}

	// The query profile is a unit vector on the query item, so cosine
	// similarity to a user reduces to their rating of it over their norm.
	type userSim struct {
		user int
		sim  float64
	}
	sims := make([]userSim, 0, len(raters))
	for _, u := range raters {
		sims = append(sims, userSim{user: u, sim: m.ratings[u][queryID] / m.norms[u]})
	}
	sort.SliceStable(sims, func(i, j int) bool {
		if sims[i].sim != sims[j].sim {
			return sims[i].sim > sims[j].sim
		}
		return sims[i].user < sims[j].user
	})
	if len(sims) > neighborUsers {
		sims = sims[:neighborUsers]
	}

	// Aggregate similarity-weighted ratings across the neighborhood.
	scores := make(map[int]float64)
	for _, us := range sims {
		for bookID, rating := range m.ratings[us.user] {
			if bookID == queryID {
				continue
			}
			scores[bookID] += us.sim * rating
		}
	}
	if len(scores) == 0 {
		return nil
	}

	candidates := make([]ScoredBook, 0, len(scores))
	var maxScore float64
	for bookID, score := range scores {
		if score > maxScore {
			maxScore = score
		}
		candidates = append(candidates, ScoredBook{ID: bookID, Similarity: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	// Normalize presentation scores into (0, 1].
	for i := range candidates {
		candidates[i].Similarity = clamp01(candidates[i].Similarity / maxScore)
	}
	return candidates
}
