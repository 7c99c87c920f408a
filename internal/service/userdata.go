package service

import (
	"context"
	"log/slog"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/store/sqlite"
)

// UserDataService manages per-user favorites and ratings. Records are
// keyed by title because catalog IDs are positional and regenerate on
// every load.
type UserDataService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewUserDataService creates a user-data service over the SQLite store.
func NewUserDataService(store *sqlite.Store, logger *slog.Logger) *UserDataService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UserDataService{store: store, logger: logger}
}

// AddFavorite saves a book for a user.
func (s *UserDataService) AddFavorite(ctx context.Context, userID, bookTitle string) (*domain.Favorite, error) {
	return s.store.AddFavorite(ctx, userID, bookTitle)
}

// RemoveFavorite deletes a saved book.
func (s *UserDataService) RemoveFavorite(ctx context.Context, userID, bookTitle string) error {
	return s.store.RemoveFavorite(ctx, userID, bookTitle)
}

// Favorites lists a user's saved books.
func (s *UserDataService) Favorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	return s.store.ListFavorites(ctx, userID)
}

// RateBook records or updates a user's score for a book.
func (s *UserDataService) RateBook(ctx context.Context, userID, bookTitle string, rating float64) (*domain.UserRating, error) {
	return s.store.SetRating(ctx, userID, bookTitle, rating)
}

// Ratings lists all of a user's ratings.
func (s *UserDataService) Ratings(ctx context.Context, userID string) ([]*domain.UserRating, error) {
	return s.store.ListRatings(ctx, userID)
}
