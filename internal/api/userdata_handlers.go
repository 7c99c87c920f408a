package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookquest/bookquest-server/internal/http/response"
)

// FavoriteRequest is the POST body for saving a favorite.
type FavoriteRequest struct {
	BookTitle string `json:"bookTitle" validate:"required,max=400"`
}

// RatingRequest is the PUT body for rating a book.
type RatingRequest struct {
	BookTitle string  `json:"bookTitle" validate:"required,max=400"`
	Rating    float64 `json:"rating" validate:"gte=0,lte=10"`
}

// handleListFavorites returns a user's saved books.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.userData.Favorites(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, favorites, s.logger)
}

// handleAddFavorite saves a book for a user.
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	fav, err := s.userData.AddFavorite(r.Context(), chi.URLParam(r, "userID"), req.BookTitle)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, fav, s.logger)
}

// handleRemoveFavorite deletes a saved book.
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")
	if err := s.userData.RemoveFavorite(r.Context(), chi.URLParam(r, "userID"), title); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleListRatings returns all of a user's ratings.
func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.userData.Ratings(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, ratings, s.logger)
}

// handleSetRating records or updates a user's score for a book.
func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	rating, err := s.userData.RateBook(r.Context(), chi.URLParam(r, "userID"), req.BookTitle, req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, rating, s.logger)
}
