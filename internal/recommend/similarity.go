package recommend

import "sort"

// Neighbor is one nearest-neighbor search hit.
type Neighbor struct {
	ID         int
	Similarity float64 // 1 - cosine distance, clamped to [0, 1]
}

// Nearest performs an exhaustive cosine search over the feature index and
// returns up to k neighbors of the given entry, ordered by similarity
// descending. The query entry itself is excluded. Ties are broken by entry
// ID ascending, so repeated calls on the same index return the same order.
func Nearest(idx *FeatureIndex, entryID, k int) []Neighbor {
	if idx == nil || entryID < 0 || entryID >= idx.Len() || k <= 0 {
		return nil
	}
	if k > idx.Len()-1 {
		k = idx.Len() - 1
	}

	query := idx.Vector(entryID)
	if query.IsZero() {
		return nil
	}

	neighbors := make([]Neighbor, 0, idx.Len()-1)
	for id := range idx.Len() {
		if id == entryID {
			continue
		}
		sim := clamp01(query.Dot(idx.Vector(id)))
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: sim})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
