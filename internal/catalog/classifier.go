package catalog

import "strings"

// GenreKeywords binds a genre label to the title keywords that select it.
type GenreKeywords struct {
	Genre    string
	Keywords []string
}

// genreTable is the ordered classification table. Order is significant:
// when a title matches keywords from several genres, the last matching
// entry in table order wins. Reordering this table changes classification
// results, so treat the order as part of the contract.
var genreTable = []GenreKeywords{
	{Genre: "Mystery/Thriller", Keywords: []string{"mystery", "detective", "murder", "crime", "investigation", "thriller", "suspense"}},
	{Genre: "Romance", Keywords: []string{"love", "romance", "heart", "passion", "wedding", "bride", "kiss"}},
	{Genre: "Fantasy", Keywords: []string{"magic", "wizard", "dragon", "fantasy", "enchanted", "spell", "realm"}},
	{Genre: "Science Fiction", Keywords: []string{"space", "future", "robot", "sci-fi", "alien", "galaxy", "time"}},
	{Genre: "Horror", Keywords: []string{"horror", "ghost", "dark", "fear", "nightmare", "haunted", "terror"}},
	{Genre: "Biography/Memoir", Keywords: []string{"life", "biography", "memoir", "story of", "autobiography"}},
	{Genre: "History", Keywords: []string{"history", "war", "historical", "century", "battle", "ancient"}},
	{Genre: "Children/Young Adult", Keywords: []string{"children", "kid", "young", "junior", "teen", "school"}},
}

// ClassifyGenre assigns a genre by scanning the title against the keyword
// table. Matching is case-insensitive substring containment. Returns the
// default genre when nothing matches.
func ClassifyGenre(title string) string {
	t := strings.ToLower(title)
	genre := ""
	for _, entry := range genreTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(t, kw) {
				genre = entry.Genre
				break
			}
		}
	}
	if genre == "" {
		return defaultGenre
	}
	return genre
}

// KnownGenres returns the genre labels the classifier can assign, in table
// order, with the default genre appended.
func KnownGenres() []string {
	out := make([]string, 0, len(genreTable)+1)
	for _, entry := range genreTable {
		out = append(out, entry.Genre)
	}
	return append(out, defaultGenre)
}
