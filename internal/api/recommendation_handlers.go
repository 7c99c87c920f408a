package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/bookquest/bookquest-server/internal/http/response"
)

// RecommendRequest is the POST body for recommendation queries.
type RecommendRequest struct {
	Query  string `json:"query" validate:"required,max=200"`
	Method string `json:"method" validate:"omitempty,oneof=content genre author collaborative hybrid popular"`
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=50"`
	UserID string `json:"userId" validate:"omitempty,max=100"`
}

// handleGetRecommendations serves recommendations for query parameters:
// ?query=...&method=...&limit=... ("q" is accepted as an alias for "query").
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		query = q.Get("q")
	}

	recs, err := s.recommendations.Recommend(
		r.Context(),
		q.Get("userId"),
		query,
		q.Get("method"),
		queryInt(r, "limit", 0),
	)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, recs, s.logger)
}

// handleRecommendationsByGenre serves the genre strategy for a path-named
// genre: GET /recommendations/genre/{genre}.
func (s *Server) handleRecommendationsByGenre(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendations.Recommend(r.Context(), "", pathParam(r, "genre"), "genre", queryInt(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, recs, s.logger)
}

// handleRecommendationsByAuthor serves the author strategy for a path-named
// author: GET /recommendations/author/{author}.
func (s *Server) handleRecommendationsByAuthor(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendations.Recommend(r.Context(), "", pathParam(r, "author"), "author", queryInt(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, recs, s.logger)
}

// handleHybridRecommendations always runs the hybrid strategy for a JSON
// body: POST /recommendations/hybrid.
func (s *Server) handleHybridRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	req.Method = "hybrid"
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	recs, err := s.recommendations.Recommend(r.Context(), req.UserID, req.Query, req.Method, req.Limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, recs, s.logger)
}

// handlePostRecommendations serves recommendations for a JSON body.
func (s *Server) handlePostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	recs, err := s.recommendations.Recommend(r.Context(), req.UserID, req.Query, req.Method, req.Limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, recs, s.logger)
}
