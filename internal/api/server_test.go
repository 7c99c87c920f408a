package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/http/response"
	"github.com/bookquest/bookquest-server/internal/metadata"
	"github.com/bookquest/bookquest-server/internal/recommend"
	"github.com/bookquest/bookquest-server/internal/search"
	"github.com/bookquest/bookquest-server/internal/service"
	"github.com/bookquest/bookquest-server/internal/store/sqlite"
)

type stubProvider struct {
	result *metadata.BookMetadata
}

func (p *stubProvider) Lookup(context.Context, string, string) (*metadata.BookMetadata, error) {
	if p.result == nil {
		return nil, metadata.ErrNotFound
	}
	return p.result, nil
}

func testEngine(t *testing.T, build bool) *recommend.Engine {
	t.Helper()

	csv := strings.Join([]string{
		"Book-Title,Book-Author,Publisher,Year-Of-Publication,Image-URL-M",
		"Dragon's Quest,Anne Archer,Quill House,1998,",
		"Dragon's Lair,Bob Byrne,Inkwell Press,2001,",
		"Love Story,Cara Chase,Meadow Books,1995,",
		"Ghost House,Dana Drake,Dusk Press,1999,",
	}, "\n")
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	cfg := recommend.EngineConfig{
		Vectorizer: recommend.VectorizerConfig{
			MaxFeatures: 500,
			MinDocFreq:  1,
			MaxDocRatio: 1.0,
			NGramMin:    1,
			NGramMax:    2,
		},
		CollaborativeUsers: 200,
		DefaultLimit:       8,
		MaxLimit:           50,
	}
	e := recommend.NewEngine(catalog.NewLoader(catalog.DefaultSchema, nil), path, cfg, nil)
	if build {
		require.NoError(t, e.Build(context.Background()))
	}
	return e
}

func newTestServer(t *testing.T, engine *recommend.Engine) *Server {
	t.Helper()
	return newTestServerWithConfig(t, engine, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})
}

func newTestServerWithConfig(t *testing.T, engine *recommend.Engine, cfg config.ServerConfig) *Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	idx, err := search.NewIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	if snap, snapErr := engine.Snapshot(); snapErr == nil {
		require.NoError(t, idx.IndexCatalog(snap.Catalog))
	}

	return NewServer(
		cfg,
		service.NewRecommendationService(engine, store, nil),
		service.NewLibraryService(engine, nil),
		service.NewMetadataService(nil, &stubProvider{result: &metadata.BookMetadata{Title: "Dune", Source: "stub"}}),
		service.NewUserDataService(store, nil),
		idx,
		nil,
	)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env response.Envelope
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestRecommendations_Get(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations?query=Dragon%27s+Quest&method=content&limit=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
}

func TestRecommendations_Post(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations",
		`{"query": "Dragon's Quest", "method": "content", "limit": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestRecommendations_GenreRoute(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/genre/Fantasy?limit=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	recs, ok := env.Data.([]any)
	require.True(t, ok)
	require.NotEmpty(t, recs)
	first, ok := recs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "genre", first["method"])
}

func TestRecommendations_AuthorRoute(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/author/byrne", "")
	assert.Equal(t, http.StatusOK, w.Code)
	recs, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, recs, 1)
	first, ok := recs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Dragon's Lair", first["title"])
}

func TestRecommendations_HybridRoute(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations/hybrid",
		`{"query": "Dragon's Quest", "limit": 4}`)
	assert.Equal(t, http.StatusOK, w.Code)
	recs, ok := env.Data.([]any)
	require.True(t, ok)
	require.NotEmpty(t, recs)
	first, ok := recs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hybrid", first["method"])
}

func TestRecommendations_ValidationError(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations",
		`{"query": "", "method": "telepathy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestRecommendations_NotReady(t *testing.T) {
	srv := newTestServer(t, testEngine(t, false))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/recommendations?query=dragon", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
}

func TestBooks_Popular(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/books/popular?limit=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestBooks_ByGenre(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, _ := doRequest(t, srv, http.MethodGet, "/api/v1/books/genre/Fantasy", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, srv, http.MethodGet, "/api/v1/books/genre/Westerns", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_GetByTitle(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/books/Ghost%20House", "")
	assert.Equal(t, http.StatusOK, w.Code)
	book, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ghost House", book["title"])

	w, _ = doRequest(t, srv, http.MethodGet, "/api/v1/books/Nonexistent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenresAndAuthors(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/genres", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, env.Data)

	w, env = doRequest(t, srv, http.MethodGet, "/api/v1/authors", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, env.Data)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/search?q=dragon", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = doRequest(t, srv, http.MethodGet, "/api/v1/search?q=dragon&limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetadataLookup(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/metadata?title=Dune", "")
	assert.Equal(t, http.StatusOK, w.Code)
	m, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "stub", m["source"])

	w, _ = doRequest(t, srv, http.MethodGet, "/api/v1/metadata", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoritesFlow(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, _ := doRequest(t, srv, http.MethodPost, "/api/v1/users/user-1/favorites", `{"bookTitle": "Dragon's Quest"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/users/user-1/favorites", "")
	assert.Equal(t, http.StatusOK, w.Code)
	favorites, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, favorites, 1)

	w, _ = doRequest(t, srv, http.MethodDelete, "/api/v1/users/user-1/favorites/Dragon%27s%20Quest", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doRequest(t, srv, http.MethodDelete, "/api/v1/users/user-1/favorites/Dragon%27s%20Quest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimiting(t *testing.T) {
	srv := newTestServerWithConfig(t, testEngine(t, true), config.ServerConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   1,
		RateLimitBurst: 2,
	})

	codes := make([]int, 0, 3)
	for range 3 {
		w, _ := doRequest(t, srv, http.MethodGet, "/api/v1/genres", "")
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRatingsFlow(t *testing.T) {
	srv := newTestServer(t, testEngine(t, true))

	w, env := doRequest(t, srv, http.MethodPut, "/api/v1/users/user-1/ratings", `{"bookTitle": "Dragon's Quest", "rating": 8.5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	rating, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 8.5, rating["rating"])

	w, _ = doRequest(t, srv, http.MethodPut, "/api/v1/users/user-1/ratings", `{"bookTitle": "Dragon's Quest", "rating": 42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doRequest(t, srv, http.MethodGet, "/api/v1/users/user-1/ratings", "")
	assert.Equal(t, http.StatusOK, w.Code)
	ratings, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, ratings, 1)
}
