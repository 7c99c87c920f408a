// Package catalog loads and normalizes the book dataset into the in-memory
// catalog the recommendation engine operates over.
package catalog

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/errors"
)

const defaultGenre = domain.DefaultGenre

// ratingSeed fixes the synthetic attribute stream so identical inputs always
// produce identical ratings, interaction counts and reading levels.
const ratingSeed = 42

// Rating bounds for the synthetic rating distribution.
const (
	ratingMin = 3.0
	ratingMax = 9.5
)

// Popularity blend weights: rating vs. normalized interaction count.
const (
	popularityRatingWeight      = 0.7
	popularityInteractionWeight = 0.3
)

// maxSyntheticInteractions bounds the synthetic interaction count used as
// the secondary popularity signal.
const maxSyntheticInteractions = 1000

// Schema maps source CSV columns to canonical catalog fields. Title and
// Author are required; the rest are optional and default when absent.
type Schema struct {
	Title     string
	Author    string
	Publisher string
	Year      string
	Image     string
}

// DefaultSchema matches the Book-Crossing style CSV export.
var DefaultSchema = Schema{
	Title:     "Book-Title",
	Author:    "Book-Author",
	Publisher: "Publisher",
	Year:      "Year-Of-Publication",
	Image:     "Image-URL-M",
}

// Loader reads a tabular book source and produces a Catalog.
type Loader struct {
	schema Schema
	logger *slog.Logger
}

// NewLoader creates a loader with the given schema. A nil logger discards.
func NewLoader(schema Schema, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{schema: schema, logger: logger}
}

// Load reads the CSV at sourcePath and builds the catalog. Rows missing a
// title or author are dropped. Fails with a catalog load error when the file
// is unreadable, has no usable header, or yields zero entries.
func (l *Loader) Load(sourcePath string) (*Catalog, error) {
	f, err := os.Open(sourcePath) //#nosec G304 -- catalog path comes from configuration
	if err != nil {
		return nil, errors.CatalogLoadf("open catalog source %s", sourcePath).WithCause(err)
	}
	defer f.Close()

	return l.LoadFrom(f)
}

// LoadFrom builds the catalog from an already-open CSV stream.
func (l *Loader) LoadFrom(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated per field below
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.CatalogLoad("catalog source is empty or unreadable").WithCause(err)
	}

	cols, err := l.schema.resolve(header)
	if err != nil {
		return nil, err
	}

	// One shared deterministic stream, consumed in row order. Three draws
	// per row: rating, interaction count, reading level.
	rng := rand.New(rand.NewSource(ratingSeed)) //#nosec G404 -- reproducible synthetic data, not security-sensitive

	var books []domain.Book
	dropped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows rather than failing the whole load.
			dropped++
			continue
		}

		title := strings.TrimSpace(cols.field(record, cols.title))
		author := strings.TrimSpace(cols.field(record, cols.author))
		if title == "" || author == "" {
			dropped++
			continue
		}

		rating := roundRating(ratingMin + rng.Float64()*(ratingMax-ratingMin))
		interactions := rng.Intn(maxSyntheticInteractions)
		level := readingLevels[rng.Intn(len(readingLevels))]

		publisher := strings.TrimSpace(cols.field(record, cols.publisher))
		if publisher == "" {
			publisher = domain.DefaultPublisher
		}

		genre := ClassifyGenre(title)

		book := domain.Book{
			ID:              len(books),
			Title:           title,
			Author:          author,
			Publisher:       publisher,
			Year:            parseYear(cols.field(record, cols.year)),
			Genre:           genre,
			Rating:          rating,
			PopularityScore: popularityScore(rating, interactions),
			ReadingLevel:    level,
			ImageURL:        imageOrPlaceholder(cols.field(record, cols.image), title),
		}
		book.CombinedText = combinedText(&book)
		books = append(books, book)
	}

	if len(books) == 0 {
		return nil, errors.CatalogLoad("catalog source contains no usable rows")
	}

	l.logger.Info("catalog loaded", "books", len(books), "dropped_rows", dropped)
	return newCatalog(books), nil
}

// columnIndexes holds resolved header positions. -1 means the optional
// column is absent.
type columnIndexes struct {
	title     int
	author    int
	publisher int
	year      int
	image     int
}

func (c columnIndexes) field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// resolve validates the schema mapping against the actual header. Matching
// is case-insensitive. Missing required columns fail loudly here instead of
// defaulting deep in request logic.
func (s Schema) resolve(header []string) (columnIndexes, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		title:     find(s.Title),
		author:    find(s.Author),
		publisher: find(s.Publisher),
		year:      find(s.Year),
		image:     find(s.Image),
	}

	var missing []string
	if cols.title < 0 {
		missing = append(missing, s.Title)
	}
	if cols.author < 0 {
		missing = append(missing, s.Author)
	}
	if len(missing) > 0 {
		return cols, errors.CatalogLoadf("catalog source missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

var readingLevels = []domain.ReadingLevel{
	domain.LevelBeginner,
	domain.LevelIntermediate,
	domain.LevelAdvanced,
}

// parseYear coerces the year column to an integer, defaulting to 2000 on
// missing or malformed values.
func parseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year <= 0 {
		return 2000
	}
	return year
}

func roundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

// popularityScore blends the normalized rating with the normalized synthetic
// interaction count.
func popularityScore(rating float64, interactions int) float64 {
	normRating := (rating - ratingMin) / (ratingMax - ratingMin)
	normInteractions := float64(interactions) / float64(maxSyntheticInteractions-1)
	return popularityRatingWeight*normRating + popularityInteractionWeight*normInteractions
}

// imageOrPlaceholder returns the source image URL, or a generated
// placeholder when the source value is empty or a serialized null.
func imageOrPlaceholder(img, title string) string {
	img = strings.TrimSpace(img)
	switch strings.ToLower(img) {
	case "", "nan", "null":
		return placeholderImage(title)
	}
	return img
}

func placeholderImage(title string) string {
	runes := []rune(title)
	if len(runes) > 20 {
		runes = runes[:20]
	}
	label := strings.ReplaceAll(string(runes), " ", "+")
	return "https://via.placeholder.com/200x300/4a5568/ffffff?text=" + label
}

func combinedText(b *domain.Book) string {
	return strings.Join([]string{b.Title, b.Author, b.Genre, b.Publisher, string(b.ReadingLevel)}, " ")
}
