package service

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/domain"
	apperrors "github.com/bookquest/bookquest-server/internal/errors"
	"github.com/bookquest/bookquest-server/internal/genre"
	"github.com/bookquest/bookquest-server/internal/normalize"
	"github.com/bookquest/bookquest-server/internal/recommend"
)

// LibraryService serves catalog browsing: genre and author listings,
// popularity rankings, random sampling, and title lookups.
type LibraryService struct {
	engine *recommend.Engine
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLibraryService creates a library service over the shared engine.
func NewLibraryService(engine *recommend.Engine, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LibraryService{
		engine: engine,
		logger: logger,
		rng:    rand.New(rand.NewSource(rand.Int63())), //#nosec G404 -- random browsing, not security-sensitive
	}
}

// Genres lists every genre with its catalog count.
func (s *LibraryService) Genres() ([]domain.GenreSummary, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Genres(), nil
}

// Authors lists every author with aggregate stats.
func (s *LibraryService) Authors() ([]domain.AuthorSummary, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Authors(), nil
}

// Popular returns the top n books by popularity score.
func (s *LibraryService) Popular(n int) ([]domain.Book, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	ids := snap.Catalog.PopularIDs(n)
	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, *snap.Catalog.Book(id))
	}
	return books, nil
}

// Random returns n random catalog entries without repeats.
func (s *LibraryService) Random(n int) ([]domain.Book, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	if n > snap.Catalog.Len() {
		n = snap.Catalog.Len()
	}
	if n <= 0 {
		return nil, nil
	}

	s.mu.Lock()
	perm := s.rng.Perm(snap.Catalog.Len())[:n]
	s.mu.Unlock()

	books := make([]domain.Book, 0, n)
	for _, id := range perm {
		books = append(books, *snap.Catalog.Book(id))
	}
	return books, nil
}

// ByGenre returns up to limit books in a genre, most popular first.
// The name is canonicalized first so "sci-fi" and "Science Fiction" hit the
// same shelf; matching then tries the full genre string and each
// "/"-delimited part.
func (s *LibraryService) ByGenre(genreName string, limit int) ([]domain.Book, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}
	ids := snap.Catalog.FilterGenre(genre.Canonical(genreName, catalog.KnownGenres()))
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, *snap.Catalog.Book(id))
	}
	return books, nil
}

// GetBook looks a single book up by title, exact fold-insensitive match
// first, then first substring match in catalog order.
func (s *LibraryService) GetBook(title string) (*domain.Book, error) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		return nil, err
	}

	match, ok := recommend.Resolve(snap.Catalog, title)
	if !ok {
		return nil, apperrors.NotFoundf("book %q not found", title)
	}
	book := snap.Catalog.Book(match.ID)
	// Resolver tiers below title matching are too loose for a direct
	// title lookup.
	if match.Confidence < 0.8 && normalize.Fold(book.Title) != normalize.Fold(title) {
		return nil, apperrors.NotFoundf("book %q not found", title)
	}
	return book, nil
}
