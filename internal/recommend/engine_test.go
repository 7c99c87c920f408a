package recommend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/domain"
	apperrors "github.com/bookquest/bookquest-server/internal/errors"
)

// buildTestCatalog loads a catalog from rows of
// {title, author, publisher, year, image}.
func buildTestCatalog(t *testing.T, rows [][]string) *catalog.Catalog {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Book-Title,Book-Author,Publisher,Year-Of-Publication,Image-URL-M\n")
	for _, row := range rows {
		require.Len(t, row, 5)
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}

	cat, err := catalog.NewLoader(catalog.DefaultSchema, nil).LoadFrom(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return cat
}

func testEngineConfig() EngineConfig {
	return EngineConfig{
		Vectorizer:         testVectorizerConfig(),
		CollaborativeUsers: 200,
		DefaultLimit:       8,
		MaxLimit:           50,
	}
}

// builtEngine writes the rows to a temp CSV and builds an engine over it.
func builtEngine(t *testing.T, rows [][]string) *Engine {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Book-Title,Book-Author,Publisher,Year-Of-Publication,Image-URL-M\n")
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	e := NewEngine(catalog.NewLoader(catalog.DefaultSchema, nil), path, testEngineConfig(), nil)
	require.NoError(t, e.Build(context.Background()))
	return e
}

func dragonRows() [][]string {
	return [][]string{
		{"Dragon's Quest", "Anne Archer", "Quill House", "1998", ""},
		{"Dragon's Lair", "Bob Byrne", "Inkwell Press", "2001", ""},
		{"Love Story", "Cara Chase", "Meadow Books", "1995", ""},
	}
}

func TestEngine_NotReadyBeforeBuild(t *testing.T) {
	e := NewEngine(catalog.NewLoader(catalog.DefaultSchema, nil), "unused.csv", testEngineConfig(), nil)

	assert.False(t, e.Ready())
	_, err := e.Recommend("anything", domain.MethodContent, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotReady)
}

func TestEngine_BuildOnce(t *testing.T) {
	e := builtEngine(t, dragonRows())
	require.True(t, e.Ready())

	first, err := e.Snapshot()
	require.NoError(t, err)
	require.NoError(t, e.Build(context.Background()))
	second, err := e.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEngine_ContentRecommendation(t *testing.T) {
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("Dragon's Quest", domain.MethodContent, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "Dragon's Lair", recs[0].Title)
	assert.Equal(t, domain.MethodContent, recs[0].Method)
	assert.Greater(t, recs[0].Similarity, 0.0)
	assert.Contains(t, recs[0].Reason, "Dragon's Quest")
	assert.Len(t, recs[0].Factors, 4)
}

func TestEngine_EmptyQueryFallsBackToPopular(t *testing.T) {
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("   ", domain.MethodContent, 8)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Equal(t, domain.MethodPopular, r.Method)
		assert.Equal(t, 0.7, r.Similarity)
	}
}

func TestEngine_UnresolvedQueryFallsBackToPopular(t *testing.T) {
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("zzzz no such book", domain.MethodContent, 8)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, domain.MethodPopular, recs[0].Method)
}

func TestEngine_GenreSplitFallback(t *testing.T) {
	rows := [][]string{
		{"Ghost House", "Dana Drake", "Dusk Press", "1999", ""},
		{"Haunted Hall", "Evan Ellis", "Dusk Press", "2003", ""},
		{"Wedding in Spring", "Faye Ford", "Meadow Books", "2005", ""},
	}
	e := builtEngine(t, rows)

	recs, err := e.Recommend("Sci-Fi/Horror", domain.MethodGenre, 8)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Equal(t, "Horror", r.Genre)
		assert.Equal(t, domain.MethodGenre, r.Method)
		assert.Equal(t, 0.85, r.Similarity)
	}
}

func TestEngine_AuthorRecommendation(t *testing.T) {
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("byrne", domain.MethodAuthor, 8)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dragon's Lair", recs[0].Title)
	assert.Equal(t, 0.9, recs[0].Similarity)
	assert.Equal(t, "By the same author you searched for", recs[0].Reason)
}

func TestEngine_CollaborativeDegradesToContent(t *testing.T) {
	// Three books is far below the collaborative threshold, so the model
	// is absent and the strategy must hand off to content.
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("Dragon's Quest", domain.MethodCollaborative, 2)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, domain.MethodContent, recs[0].Method)
}

func TestEngine_HybridTagsAndDeduplicates(t *testing.T) {
	e := builtEngine(t, dragonRows())

	recs, err := e.Recommend("Dragon's Quest", domain.MethodHybrid, 4)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	seen := make(map[string]bool)
	for _, r := range recs {
		assert.Equal(t, domain.MethodHybrid, r.Method)
		assert.False(t, seen[r.Title], "duplicate title %q", r.Title)
		seen[r.Title] = true
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := builtEngine(t, dragonRows())

	first, err := e.Recommend("Dragon", domain.MethodContent, 5)
	require.NoError(t, err)
	second, err := e.Recommend("Dragon", domain.MethodContent, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_LimitClamping(t *testing.T) {
	rows := make([][]string, 0, 20)
	for i := range 20 {
		rows = append(rows, []string{
			fmt.Sprintf("Mystery Case %d", i),
			fmt.Sprintf("Author %d", i),
			"Clue Press", "2000", "",
		})
	}
	e := builtEngine(t, rows)

	recs, err := e.Recommend("Mystery", domain.MethodGenre, 5)
	require.NoError(t, err)
	assert.Len(t, recs, 5)

	// Zero limit uses the configured default.
	recs, err = e.Recommend("Mystery", domain.MethodGenre, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 8)
}

func TestBuildCollaborative(t *testing.T) {
	rows := make([][]string, 0, 60)
	for i := range 60 {
		rows = append(rows, []string{
			fmt.Sprintf("Novel %d", i),
			fmt.Sprintf("Writer %d", i),
			"Big House", "2010", "",
		})
	}
	cat := buildTestCatalog(t, rows)

	t.Run("below thresholds", func(t *testing.T) {
		assert.Nil(t, BuildCollaborative(cat, 10))
		small := buildTestCatalog(t, rows[:5])
		assert.Nil(t, BuildCollaborative(small, 200))
	})

	t.Run("recommendations", func(t *testing.T) {
		m := BuildCollaborative(cat, 200)
		require.NotNil(t, m)
		assert.Equal(t, 200, m.Users())

		scored := m.Recommend(0, 5)
		require.NotEmpty(t, scored)
		assert.LessOrEqual(t, len(scored), 5)
		for _, sb := range scored {
			assert.NotEqual(t, 0, sb.ID)
			assert.Greater(t, sb.Similarity, 0.0)
			assert.LessOrEqual(t, sb.Similarity, 1.0)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := BuildCollaborative(cat, 200).Recommend(3, 8)
		b := BuildCollaborative(cat, 200).Recommend(3, 8)
		assert.Equal(t, a, b)
	})
}
