package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookquest/bookquest-server/internal/domain"
	apperrors "github.com/bookquest/bookquest-server/internal/errors"
	"github.com/bookquest/bookquest-server/internal/id"
)

const favoriteColumns = `id, user_id, book_title, created_at`

func scanFavorite(scanner interface{ Scan(dest ...any) error }) (*domain.Favorite, error) {
	var fav domain.Favorite
	var createdAt string

	if err := scanner.Scan(&fav.ID, &fav.UserID, &fav.BookTitle, &createdAt); err != nil {
		return nil, err
	}

	var err error
	fav.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// AddFavorite saves a book for a user. Adding the same title twice is
// idempotent; the existing record is returned.
func (s *Store) AddFavorite(ctx context.Context, userID, bookTitle string) (*domain.Favorite, error) {
	favID, err := id.Generate("fav")
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, book_title, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, book_title) DO NOTHING`,
		favID, userID, bookTitle, formatTime(time.Now()),
	)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? AND book_title = ?`,
		userID, bookTitle)
	return scanFavorite(row)
}

// RemoveFavorite deletes a saved book. Returns a not-found error when the
// user never saved that title.
func (s *Store) RemoveFavorite(ctx context.Context, userID, bookTitle string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND book_title = ?`,
		userID, bookTitle)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("favorite %q not found", bookTitle)
	}
	return nil
}

// ListFavorites returns a user's saved books, most recent first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []*domain.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// IsFavorite reports whether the user saved the given title.
func (s *Store) IsFavorite(ctx context.Context, userID, bookTitle string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND book_title = ?`,
		userID, bookTitle)

	var one int
	err := row.Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
