package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookquest/bookquest-server/internal/domain"
	apperrors "github.com/bookquest/bookquest-server/internal/errors"
	"github.com/bookquest/bookquest-server/internal/id"
)

const ratingColumns = `id, user_id, book_title, rating, created_at, updated_at`

func scanRating(scanner interface{ Scan(dest ...any) error }) (*domain.UserRating, error) {
	var r domain.UserRating
	var createdAt, updatedAt string

	if err := scanner.Scan(&r.ID, &r.UserID, &r.BookTitle, &r.Rating, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// SetRating records or updates a user's score for a book.
func (s *Store) SetRating(ctx context.Context, userID, bookTitle string, rating float64) (*domain.UserRating, error) {
	if rating < 0 || rating > 10 {
		return nil, apperrors.Validationf("rating %.1f outside the 0-10 scale", rating)
	}

	ratingID, err := id.Generate("rate")
	if err != nil {
		return nil, err
	}

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ratings (id, user_id, book_title, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, book_title)
		DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
		ratingID, userID, bookTitle, rating, now, now,
	)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND book_title = ?`,
		userID, bookTitle)
	return scanRating(row)
}

// GetRating returns a user's score for a book, or a not-found error.
func (s *Store) GetRating(ctx context.Context, userID, bookTitle string) (*domain.UserRating, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND book_title = ?`,
		userID, bookTitle)

	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("no rating for %q", bookTitle)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRatings returns all of a user's ratings, most recently updated first.
func (s *Store) ListRatings(ctx context.Context, userID string) ([]*domain.UserRating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.UserRating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
