// Package recommend implements the recommendation engine: TF-IDF feature
// indexing, cosine nearest-neighbor search, query resolution, a synthetic
// collaborative model, and the strategy orchestrator.
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/bookquest/bookquest-server/internal/errors"
	"github.com/bookquest/bookquest-server/internal/normalize"
)

// VectorizerConfig controls vocabulary construction. The defaults mirror a
// classic text-vectorization setup: unigrams through trigrams, English
// stopwords removed, rare and near-ubiquitous terms pruned, vocabulary
// capped at the most frequent terms.
type VectorizerConfig struct {
	MaxFeatures int     // vocabulary cap
	MinDocFreq  int     // drop terms in fewer documents
	MaxDocRatio float64 // drop terms in more than this fraction of documents
	NGramMin    int
	NGramMax    int
}

// DefaultVectorizerConfig returns the standard configuration.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		MinDocFreq:  2,
		MaxDocRatio: 0.95,
		NGramMin:    1,
		NGramMax:    3,
	}
}

// Vectorizer holds a fitted vocabulary with per-term IDF weights.
// Fitting is deterministic: identical documents and configuration always
// produce the identical vocabulary, column order, and weights.
type Vectorizer struct {
	cfg   VectorizerConfig
	vocab map[string]int // term -> column
	idf   []float64      // column -> inverse document frequency
}

// FitVectorizer learns the vocabulary and IDF weights from the corpus.
// Fails with an index build error when fewer than two documents are given
// or pruning leaves an empty vocabulary.
func FitVectorizer(docs []string, cfg VectorizerConfig) (*Vectorizer, error) {
	if len(docs) < 2 {
		return nil, errors.IndexBuildf("cannot vectorize %d document(s), need at least 2", len(docs))
	}
	if cfg.MinDocFreq < 1 {
		cfg.MinDocFreq = 1
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range ngrams(normalize.ContentTokens(doc), cfg.NGramMin, cfg.NGramMax) {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	maxDF := int(cfg.MaxDocRatio * float64(len(docs)))
	if maxDF < cfg.MinDocFreq {
		maxDF = cfg.MinDocFreq
	}

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= cfg.MinDocFreq && df <= maxDF {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return nil, errors.IndexBuild("vocabulary is empty after frequency pruning")
	}

	// Keep the most frequent terms; ties broken lexicographically so the
	// cap is reproducible.
	sort.Slice(kept, func(i, j int) bool {
		if termFreq[kept[i]] != termFreq[kept[j]] {
			return termFreq[kept[i]] > termFreq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if cfg.MaxFeatures > 0 && len(kept) > cfg.MaxFeatures {
		kept = kept[:cfg.MaxFeatures]
	}

	// Column order is lexicographic, independent of frequency rank.
	sort.Strings(kept)

	v := &Vectorizer{
		cfg:   cfg,
		vocab: make(map[string]int, len(kept)),
		idf:   make([]float64, len(kept)),
	}
	n := float64(len(docs))
	for col, term := range kept {
		v.vocab[term] = col
		// Smoothed IDF, matching the convention most vectorizers use.
		v.idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v, nil
}

// VocabularySize returns the number of learned terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

// Transform converts a document into an L2-normalized sparse TF-IDF vector.
// Normalized vectors make cosine similarity a plain dot product.
func (v *Vectorizer) Transform(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range ngrams(normalize.ContentTokens(doc), v.cfg.NGramMin, v.cfg.NGramMax) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, col := range vec.Indices {
		w := counts[col] * v.idf[col]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range vec.Values {
		vec.Values[i] /= norm
	}
	return vec
}

// ngrams expands a token sequence into space-joined n-grams of lengths
// [minN, maxN].
func ngrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
