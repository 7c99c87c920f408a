package recommend

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/domain"
	apperrors "github.com/bookquest/bookquest-server/internal/errors"
)

// Fixed presentation similarities for the browse-style strategies, which
// have no cosine score of their own.
const (
	genreSimilarity   = 0.85
	authorSimilarity  = 0.90
	popularSimilarity = 0.70
)

// EngineConfig tunes catalog ingestion and recommendation limits.
type EngineConfig struct {
	Vectorizer         VectorizerConfig
	CollaborativeUsers int
	DefaultLimit       int
	MaxLimit           int
}

// DefaultEngineConfig returns the standard engine tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Vectorizer:         DefaultVectorizerConfig(),
		CollaborativeUsers: 200,
		DefaultLimit:       8,
		MaxLimit:           50,
	}
}

// Snapshot is the immutable result of a build. All reads go through a
// snapshot so they never observe partially constructed state.
type Snapshot struct {
	Catalog *catalog.Catalog
	Index   *FeatureIndex
	Collab  *CollaborativeModel
}

// Engine owns the catalog, feature index, and collaborative model, and
// serves all recommendation strategies over them. The build runs at most
// once; concurrent triggers serialize on the build mutex and reads during a
// build get a fast not-ready error instead of blocking.
type Engine struct {
	cfg        EngineConfig
	loader     *catalog.Loader
	sourcePath string
	log        *slog.Logger

	buildMu sync.Mutex
	snap    atomic.Pointer[Snapshot]
}

// NewEngine creates an engine over the given catalog source. Nothing is
// loaded until Build is called.
func NewEngine(loader *catalog.Loader, sourcePath string, cfg EngineConfig, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		cfg:        cfg,
		loader:     loader,
		sourcePath: sourcePath,
		log:        log,
	}
}

// Build loads the catalog, fits the feature index, and constructs the
// collaborative model. Safe to call from multiple goroutines; only the
// first caller does the work, later calls return immediately once a
// snapshot exists.
func (e *Engine) Build(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	if e.snap.Load() != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	cat, err := e.loader.Load(e.sourcePath)
	if err != nil {
		return err
	}

	idx, err := BuildIndex(cat, e.cfg.Vectorizer)
	if err != nil {
		return err
	}

	collab := BuildCollaborative(cat, e.cfg.CollaborativeUsers)
	if collab == nil {
		e.log.Warn("collaborative model unavailable, will degrade to content",
			slog.Int("books", cat.Len()),
			slog.Int("requested_users", e.cfg.CollaborativeUsers))
	}

	e.snap.Store(&Snapshot{Catalog: cat, Index: idx, Collab: collab})
	e.log.Info("recommendation engine built",
		slog.Int("books", cat.Len()),
		slog.Int("vocabulary", idx.VocabularySize()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Ready reports whether a snapshot is available.
func (e *Engine) Ready() bool {
	return e.snap.Load() != nil
}

// Snapshot returns the built state, or a not-ready error while the build
// is still in progress.
func (e *Engine) Snapshot() (*Snapshot, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, apperrors.NotReady("recommendation engine is still building")
	}
	return s, nil
}

// Recommend runs the requested strategy for a free-text query. Empty
// queries and unresolvable queries degrade to the popularity ranking; an
// empty result set from any strategy does the same.
func (e *Engine) Recommend(query string, method domain.Method, limit int) ([]domain.Recommendation, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	limit = e.clampLimit(limit)

	query = strings.TrimSpace(query)
	if query == "" {
		return e.popular(s, limit), nil
	}

	var recs []domain.Recommendation
	switch method {
	case domain.MethodGenre:
		recs = e.byGenre(s, query, limit)
	case domain.MethodAuthor:
		recs = e.byAuthor(s, query, limit)
	case domain.MethodCollaborative:
		recs = e.collaborative(s, query, limit)
	case domain.MethodHybrid:
		recs = e.hybrid(s, query, limit)
	case domain.MethodPopular:
		recs = e.popular(s, limit)
	default:
		recs = e.content(s, query, limit)
	}

	if len(recs) == 0 {
		recs = e.popular(s, limit)
	}
	return recs, nil
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// content resolves the query to an entry and ranks its nearest neighbors,
// weighting cosine similarity by the resolver's match confidence.
func (e *Engine) content(s *Snapshot, query string, limit int) []domain.Recommendation {
	match, ok := Resolve(s.Catalog, query)
	if !ok {
		return nil
	}
	entry := s.Catalog.Book(match.ID)

	neighbors := Nearest(s.Index, match.ID, limit)
	recs := make([]domain.Recommendation, 0, len(neighbors))
	for _, n := range neighbors {
		sim := clamp01(n.Similarity * match.Confidence)
		recs = append(recs, Format(s.Catalog.Book(n.ID), domain.MethodContent, sim, entry.Title))
	}
	return recs
}

// byGenre treats the query as a genre name.
func (e *Engine) byGenre(s *Snapshot, genre string, limit int) []domain.Recommendation {
	ids := s.Catalog.FilterGenre(genre)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	recs := make([]domain.Recommendation, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, Format(s.Catalog.Book(id), domain.MethodGenre, genreSimilarity, ""))
	}
	return recs
}

// byAuthor treats the query as an author name fragment.
func (e *Engine) byAuthor(s *Snapshot, author string, limit int) []domain.Recommendation {
	ids := s.Catalog.FilterAuthor(author)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	recs := make([]domain.Recommendation, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, Format(s.Catalog.Book(id), domain.MethodAuthor, authorSimilarity, ""))
	}
	return recs
}

// collaborative recommends from the synthetic interaction neighborhood of
// the resolved entry, degrading to content when the model is unavailable
// or produced nothing for this entry.
func (e *Engine) collaborative(s *Snapshot, query string, limit int) []domain.Recommendation {
	if s.Collab == nil {
		return e.content(s, query, limit)
	}
	match, ok := Resolve(s.Catalog, query)
	if !ok {
		return nil
	}
	entry := s.Catalog.Book(match.ID)

	scored := s.Collab.Recommend(match.ID, limit)
	if len(scored) == 0 {
		return e.content(s, query, limit)
	}
	recs := make([]domain.Recommendation, 0, len(scored))
	for _, sb := range scored {
		recs = append(recs, Format(s.Catalog.Book(sb.ID), domain.MethodCollaborative, sb.Similarity, entry.Title))
	}
	return recs
}

// hybrid blends content and collaborative results at half the limit each,
// deduplicating by title with the earlier occurrence winning.
func (e *Engine) hybrid(s *Snapshot, query string, limit int) []domain.Recommendation {
	half := (limit + 1) / 2
	combined := append(e.content(s, query, half), e.collaborative(s, query, half)...)

	seen := make(map[string]struct{}, len(combined))
	recs := make([]domain.Recommendation, 0, len(combined))
	for _, r := range combined {
		if _, dup := seen[r.Title]; dup {
			continue
		}
		seen[r.Title] = struct{}{}
		r.Method = domain.MethodHybrid
		recs = append(recs, r)
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// popular returns the top entries by popularity score at a fixed
// presentation similarity.
func (e *Engine) popular(s *Snapshot, limit int) []domain.Recommendation {
	ids := s.Catalog.PopularIDs(limit)
	recs := make([]domain.Recommendation, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, Format(s.Catalog.Book(id), domain.MethodPopular, popularSimilarity, ""))
	}
	return recs
}
