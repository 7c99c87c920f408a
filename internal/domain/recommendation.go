package domain

// Method identifies the strategy that produced a recommendation.
type Method string

// Recommendation strategies.
const (
	MethodContent       Method = "content"
	MethodGenre         Method = "genre"
	MethodAuthor        Method = "author"
	MethodCollaborative Method = "collaborative"
	MethodHybrid        Method = "hybrid"
	MethodPopular       Method = "popular"
)

// ParseMethod maps a request string to a Method. Unknown or empty values
// default to content, which itself degrades to popular when the query
// resolves to nothing.
func ParseMethod(s string) Method {
	switch Method(s) {
	case MethodContent, MethodGenre, MethodAuthor, MethodCollaborative, MethodHybrid, MethodPopular:
		return Method(s)
	default:
		return MethodContent
	}
}

// Factor is one bar of the per-result score breakdown shown by the frontend.
// Scores are presentation values in [0, 100], derived deterministically from
// the similarity score.
type Factor struct {
	Name  string `json:"factor"`
	Score int    `json:"score"`
}

// Recommendation is a scored catalog entry returned to the caller.
type Recommendation struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Rating     float64  `json:"rating"`
	ImageURL   string   `json:"image"`
	Genre      string   `json:"genre"`
	Similarity float64  `json:"similarity"`
	Method     Method   `json:"method"`
	Reason     string   `json:"recommendationReason"`
	Keywords   []string `json:"keywords"`
	Factors    []Factor `json:"recommendationFactors"`
}
