package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/bookquest/bookquest-server/internal/catalog"
)

// Index wraps an in-memory Bleve index over the catalog.
//
// The catalog is immutable for the process lifetime, so the index is built
// once from a loaded catalog and never updated incrementally. All public
// methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex // Protects against index swap during rebuild
}

// NewIndex creates an empty in-memory search index.
func NewIndex(logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx, logger: logger}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexCatalog indexes every catalog entry in batches. Batching is
// significantly faster than per-document indexing for tens of thousands
// of rows.
func (s *Index) IndexCatalog(cat *catalog.Catalog) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	books := cat.Books()
	batch := s.index.NewBatch()
	for i := range books {
		doc := NewDocument(i, &books[i])
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := s.index.Batch(batch); err != nil {
				return fmt.Errorf("commit batch at %d: %w", i, err)
			}
			batch = s.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit final batch: %w", err)
		}
	}

	s.logger.Info("catalog indexed for search", slog.Int("documents", len(books)))
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the index contents and reindexes the given catalog.
// Acquires an exclusive lock; searches block until it finishes.
func (s *Index) Rebuild(cat *catalog.Catalog) error {
	s.mu.Lock()
	if err := s.index.Close(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("close index: %w", err)
	}
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create index: %w", err)
	}
	s.index = idx
	s.mu.Unlock()

	return s.IndexCatalog(cat)
}
