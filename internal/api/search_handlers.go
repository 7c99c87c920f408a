package api

import (
	"net/http"

	"github.com/bookquest/bookquest-server/internal/http/response"
	"github.com/bookquest/bookquest-server/internal/search"
)

// handleSearch serves full-text catalog search:
// ?q=...&genre=...&min_year=...&max_year=...&limit=...&offset=...
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.DefaultParams()
	params.Query = r.URL.Query().Get("q")
	params.Genre = r.URL.Query().Get("genre")
	params.MinYear = queryInt(r, "min_year", 0)
	params.MaxYear = queryInt(r, "max_year", 0)
	params.Limit = queryInt(r, "limit", params.Limit)
	params.Offset = queryInt(r, "offset", 0)

	if params.Limit < 1 || params.Limit > 100 {
		response.BadRequest(w, "limit must be between 1 and 100", s.logger)
		return
	}

	result, err := s.searchIndex.Search(r.Context(), params)
	if err != nil {
		s.logger.Error("search failed", "query", params.Query, "error", err)
		response.InternalError(w, "search failed", s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
