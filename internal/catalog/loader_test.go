package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/errors"
)

const testHeader = "Book-Title,Book-Author,Publisher,Year-Of-Publication,Image-URL-M\n"

func loadCSV(t *testing.T, csvData string) *Catalog {
	t.Helper()
	loader := NewLoader(DefaultSchema, nil)
	cat, err := loader.LoadFrom(strings.NewReader(csvData))
	require.NoError(t, err)
	return cat
}

func TestLoad_NormalizesFields(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"  Dragon's Quest  ,  A. Author  ,Acme Press,1999,http://example.com/a.jpg\n")

	require.Equal(t, 1, cat.Len())
	b := cat.Book(0)
	assert.Equal(t, "Dragon's Quest", b.Title)
	assert.Equal(t, "A. Author", b.Author)
	assert.Equal(t, "Acme Press", b.Publisher)
	assert.Equal(t, 1999, b.Year)
	assert.Equal(t, "http://example.com/a.jpg", b.ImageURL)
	assert.Contains(t, b.CombinedText, "Dragon's Quest")
	assert.Contains(t, b.CombinedText, "A. Author")
	assert.Contains(t, b.CombinedText, b.Genre)
}

func TestLoad_Defaults(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"Some Book,Someone,,not-a-year,\n")

	b := cat.Book(0)
	assert.Equal(t, domain.DefaultPublisher, b.Publisher)
	assert.Equal(t, 2000, b.Year)
	assert.True(t, strings.HasPrefix(b.ImageURL, "https://via.placeholder.com/"), "placeholder expected, got %s", b.ImageURL)
}

func TestLoad_DropsRowsMissingTitleOrAuthor(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"Kept,Author,,2001,\n"+
		",Author Without Title,,2001,\n"+
		"Title Without Author,,,2001,\n")

	require.Equal(t, 1, cat.Len())
	assert.Equal(t, "Kept", cat.Book(0).Title)
}

func TestLoad_MissingRequiredColumns(t *testing.T) {
	loader := NewLoader(DefaultSchema, nil)
	_, err := loader.LoadFrom(strings.NewReader("Book-Title,Publisher\nA,B\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCatalogLoad))
	assert.Contains(t, err.Error(), "Book-Author")
}

func TestLoad_EmptySource(t *testing.T) {
	loader := NewLoader(DefaultSchema, nil)

	_, err := loader.LoadFrom(strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.ErrCatalogLoad))

	_, err = loader.LoadFrom(strings.NewReader(testHeader))
	assert.True(t, errors.Is(err, errors.ErrCatalogLoad))
}

func TestLoad_RatingsDeterministicAndInRange(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(testHeader)
	titles := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"}
	for _, title := range titles {
		sb.WriteString(title + ",Author,,2001,\n")
	}
	data := sb.String()

	first := loadCSV(t, data)
	second := loadCSV(t, data)

	for i := range first.Books() {
		a, b := first.Book(i), second.Book(i)
		assert.GreaterOrEqual(t, a.Rating, 3.0)
		assert.LessOrEqual(t, a.Rating, 9.5)
		assert.Equal(t, a.Rating, b.Rating, "rating for row %d changed between loads", i)
		assert.Equal(t, a.PopularityScore, b.PopularityScore)
		assert.Equal(t, a.ReadingLevel, b.ReadingLevel)
	}
}

func TestLoad_PopularityScoreBlend(t *testing.T) {
	cat := loadCSV(t, testHeader+"Only Book,Author,,2001,\n")
	b := cat.Book(0)

	// Bounded by the 0.7/0.3 weights over normalized [0,1] signals.
	assert.GreaterOrEqual(t, b.PopularityScore, 0.0)
	assert.LessOrEqual(t, b.PopularityScore, 1.0)
}

func TestClassifyGenre(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Dragon's Lair", "Fantasy"},
		{"Murder on the Orient Express", "Mystery/Thriller"},
		{"A Wedding in Provence", "Romance"},
		{"Robot Dreams", "Science Fiction"},
		{"The Haunted House", "Horror"},
		{"A History of Rome", "History"},
		{"Plain Title", domain.DefaultGenre},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyGenre(tt.title), "title %q", tt.title)
	}
}

func TestClassifyGenre_LastMatchWins(t *testing.T) {
	// "love" selects Romance, "ghost" selects Horror; Horror is later in
	// the table, so it wins on overlap.
	assert.Equal(t, "Horror", ClassifyGenre("Love of a Ghost"))

	// "murder" (Mystery/Thriller) vs "dragon" (Fantasy): Fantasy is later.
	assert.Equal(t, "Fantasy", ClassifyGenre("Murder of the Dragon"))
}

func TestClassifyGenre_Deterministic(t *testing.T) {
	for range 5 {
		assert.Equal(t, "Fantasy", ClassifyGenre("The Wizard of Oz"))
	}
}

func TestFilterGenre_SplitsOnSlash(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"The Haunted Hotel,A,,2001,\n"+
		"Ghost Stories,B,,2001,\n"+
		"A Wedding,C,,2001,\n")

	// No genre contains the full "Sci-Fi/Horror" string, but the "Horror"
	// part matches.
	ids := cat.FilterGenre("Sci-Fi/Horror")
	require.Len(t, ids, 2)
	for _, id := range ids {
		assert.Equal(t, "Horror", cat.Book(id).Genre)
	}

	// Sorted by popularity, then rating.
	first, second := cat.Book(ids[0]), cat.Book(ids[1])
	assert.GreaterOrEqual(t, first.PopularityScore, second.PopularityScore)
}

func TestFilterAuthor(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"Book One,Jane Smith,,2001,\n"+
		"Book Two,John Smith,,2001,\n"+
		"Book Three,Alice Jones,,2001,\n")

	ids := cat.FilterAuthor("smith")
	require.Len(t, ids, 2)

	// Sorted by rating descending.
	assert.GreaterOrEqual(t, cat.Book(ids[0]).Rating, cat.Book(ids[1]).Rating)

	assert.Empty(t, cat.FilterAuthor("  "))
}

func TestCatalogAggregates(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"The Dragon Realm,Jane Smith,,2001,\n"+
		"Dragon Magic,Jane Smith,,2002,\n"+
		"Plain Title,Bob Brown,,2003,\n")

	genres := cat.Genres()
	require.Len(t, genres, 2)
	// Sorted by name: Fantasy before General Fiction.
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, 2, genres[0].Count)
	assert.Equal(t, domain.DefaultGenre, genres[1].Name)

	authors := cat.Authors()
	require.Len(t, authors, 2)
	assert.Equal(t, "Bob Brown", authors[0].Name)
	assert.Equal(t, "Jane Smith", authors[1].Name)
	assert.Equal(t, 2, authors[1].BookCount)
	assert.Equal(t, []string{"Fantasy"}, authors[1].TopGenres)
	assert.Greater(t, authors[1].AverageRating, 0.0)
}

func TestPopularIDs(t *testing.T) {
	cat := loadCSV(t, testHeader+
		"A,X,,2001,\nB,Y,,2001,\nC,Z,,2001,\n")

	ids := cat.PopularIDs(2)
	require.Len(t, ids, 2)
	assert.GreaterOrEqual(t, cat.Book(ids[0]).PopularityScore, cat.Book(ids[1]).PopularityScore)

	// Clamped to catalog size.
	assert.Len(t, cat.PopularIDs(10), 3)
	assert.Empty(t, cat.PopularIDs(0))
}
