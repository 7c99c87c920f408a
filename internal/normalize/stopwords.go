package normalize

// englishStopwords is the fixed stopword table used by the vectorizer.
// Matches the common English list used by text-vectorization libraries;
// keeping it static makes vocabulary construction reproducible.
var englishStopwords = map[string]struct{}{}

//nolint:gochecknoinits // Builds the stopword set from the static word list
func init() {
	for _, w := range stopwordList {
		englishStopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the (already lowercased) token is an English
// stopword.
func IsStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}

var stopwordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
	"doing", "don", "down", "during", "each", "few", "for", "from",
	"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "isn", "it", "its", "itself", "just",
	"me", "more", "most", "mustn", "my", "myself", "no", "nor", "not",
	"now", "of", "off", "on", "once", "only", "or", "other", "ought",
	"our", "ours", "ourselves", "out", "over", "own", "same", "shan",
	"she", "should", "shouldn", "so", "some", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "wasn", "we", "were", "weren", "what",
	"when", "where", "which", "while", "who", "whom", "why", "will",
	"with", "won", "would", "wouldn", "you", "your", "yours", "yourself",
	"yourselves",
}
