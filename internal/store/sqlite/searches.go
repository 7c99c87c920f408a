package sqlite

import (
	"context"
	"time"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/id"
)

const searchColumns = `id, user_id, query, method, result_count, created_at`

// LogSearch appends one analytics record for a recommendation query.
// Callers treat this as fire-and-forget; failures are logged, not returned
// to the requester.
func (s *Store) LogSearch(ctx context.Context, userID, query, method string, resultCount int) error {
	searchID, err := id.Generate("srch")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO searches (id, user_id, query, method, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		searchID, nullableString(userID), query, method, resultCount, formatTime(time.Now()),
	)
	return err
}

// RecentSearches returns the latest analytics records, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]*domain.SearchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.SearchEvent
	for rows.Next() {
		var ev domain.SearchEvent
		var userID *string
		var createdAt string
		if err := rows.Scan(&ev.ID, &userID, &ev.Query, &ev.Method, &ev.ResultCount, &createdAt); err != nil {
			return nil, err
		}
		if userID != nil {
			ev.UserID = *userID
		}
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
