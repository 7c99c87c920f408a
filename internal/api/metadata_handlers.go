package api

import (
	"errors"
	"net/http"

	"github.com/bookquest/bookquest-server/internal/http/response"
	"github.com/bookquest/bookquest-server/internal/metadata"
)

// handleMetadataLookup queries the external metadata providers:
// ?title=...&author=...
// Provider misses and failures both surface as a 404, never a 5xx.
func (s *Server) handleMetadataLookup(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		response.BadRequest(w, "title is required", s.logger)
		return
	}

	m, err := s.metadata.Lookup(r.Context(), title, r.URL.Query().Get("author"))
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			response.NotFound(w, "no metadata found for "+title, s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, m, s.logger)
}
