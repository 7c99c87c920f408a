package recommend

import (
	"github.com/bookquest/bookquest-server/internal/catalog"
)

// SparseVector is a sparse weighted-term vector. Indices are sorted
// ascending; Values is index-aligned. Vectors produced by the vectorizer
// are L2-normalized.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Dot computes the dot product of two sparse vectors by merging their
// sorted index lists.
func (a SparseVector) Dot(b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// IsZero reports whether the vector has no non-zero components.
func (v SparseVector) IsZero() bool {
	return len(v.Indices) == 0
}

// FeatureIndex holds one TF-IDF vector per catalog entry, index-aligned
// with book IDs. Read-only after construction.
type FeatureIndex struct {
	vectorizer *Vectorizer
	vectors    []SparseVector
}

// BuildIndex vectorizes every catalog entry's combined text. Fails with an
// index build error for catalogs with fewer than two entries or no
// extractable vocabulary.
func BuildIndex(cat *catalog.Catalog, cfg VectorizerConfig) (*FeatureIndex, error) {
	books := cat.Books()
	docs := make([]string, len(books))
	for i := range books {
		docs[i] = books[i].CombinedText
	}

	v, err := FitVectorizer(docs, cfg)
	if err != nil {
		return nil, err
	}

	idx := &FeatureIndex{
		vectorizer: v,
		vectors:    make([]SparseVector, len(docs)),
	}
	for i, doc := range docs {
		idx.vectors[i] = v.Transform(doc)
	}
	return idx, nil
}

// Len returns the number of indexed entries.
func (idx *FeatureIndex) Len() int {
	return len(idx.vectors)
}

// Vector returns the feature vector for a book ID. Out-of-range IDs return
// a zero vector.
func (idx *FeatureIndex) Vector(id int) SparseVector {
	if id < 0 || id >= len(idx.vectors) {
		return SparseVector{}
	}
	return idx.vectors[id]
}

// VocabularySize returns the fitted vocabulary size.
func (idx *FeatureIndex) VocabularySize() int {
	return idx.vectorizer.VocabularySize()
}
