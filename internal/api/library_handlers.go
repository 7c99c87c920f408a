package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/bookquest/bookquest-server/internal/http/response"
)

// handlePopularBooks returns the top books by popularity score.
func (s *Server) handlePopularBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.library.Popular(queryInt(r, "limit", 8))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleRandomBooks returns a random catalog sample.
func (s *Server) handleRandomBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.library.Random(queryInt(r, "limit", 8))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleBooksByGenre returns books for a genre, most popular first.
func (s *Server) handleBooksByGenre(w http.ResponseWriter, r *http.Request) {
	genre := pathParam(r, "genre")
	if genre == "" {
		response.BadRequest(w, "genre is required", s.logger)
		return
	}

	books, err := s.library.ByGenre(genre, queryInt(r, "limit", 0))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if len(books) == 0 {
		response.NotFound(w, "no books found for genre "+genre, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleGetBook returns one book by title.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")
	if title == "" {
		response.BadRequest(w, "title is required", s.logger)
		return
	}

	book, err := s.library.GetBook(title)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleListGenres returns every genre with its catalog count.
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.library.Genres()
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, genres, s.logger)
}

// handleListAuthors returns every author with aggregate stats.
func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.library.Authors()
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, authors, s.logger)
}

// pathParam extracts a chi URL parameter, decoding percent escapes so
// titles with spaces round-trip.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
