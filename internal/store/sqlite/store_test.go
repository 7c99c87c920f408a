package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookquest/bookquest-server/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	for _, table := range []string{"favorites", "ratings", "searches"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}
}

func TestFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fav, err := s.AddFavorite(ctx, "user-1", "Dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", fav.BookTitle)
	assert.NotEmpty(t, fav.ID)
	assert.False(t, fav.CreatedAt.IsZero())

	// Adding again is idempotent and keeps the original record.
	again, err := s.AddFavorite(ctx, "user-1", "Dune")
	require.NoError(t, err)
	assert.Equal(t, fav.ID, again.ID)

	_, err = s.AddFavorite(ctx, "user-1", "Hyperion")
	require.NoError(t, err)

	favs, err := s.ListFavorites(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, favs, 2)

	ok, err := s.IsFavorite(ctx, "user-1", "Dune")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsFavorite(ctx, "user-2", "Dune")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveFavorite(ctx, "user-1", "Dune"))
	err = s.RemoveFavorite(ctx, "user-1", "Dune")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRatings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.SetRating(ctx, "user-1", "Dune", 8.5)
	require.NoError(t, err)
	assert.Equal(t, 8.5, r.Rating)

	// Re-rating updates in place.
	updated, err := s.SetRating(ctx, "user-1", "Dune", 9.0)
	require.NoError(t, err)
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, 9.0, updated.Rating)

	got, err := s.GetRating(ctx, "user-1", "Dune")
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Rating)

	_, err = s.GetRating(ctx, "user-1", "Hyperion")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.SetRating(ctx, "user-1", "Dune", 11)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	all, err := s.ListRatings(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSearchLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.LogSearch(ctx, "user-1", "dragons", "content", 8))
	require.NoError(t, s.LogSearch(ctx, "", "space opera", "hybrid", 5))

	events, err := s.RecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Anonymous searches keep an empty user.
	queries := []string{events[0].Query, events[1].Query}
	assert.Contains(t, queries, "dragons")
	assert.Contains(t, queries, "space opera")
	for _, ev := range events {
		assert.NotEmpty(t, ev.Method)
		assert.False(t, ev.CreatedAt.IsZero())
	}
}
