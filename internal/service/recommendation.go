// Package service composes the recommendation engine, catalog, stores, and
// metadata clients into the operations the HTTP layer exposes.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookquest/bookquest-server/internal/domain"
	"github.com/bookquest/bookquest-server/internal/recommend"
)

// SearchLogger is the analytics sink for recommendation queries. Logging is
// fire-and-forget; failures never reach the requester.
type SearchLogger interface {
	LogSearch(ctx context.Context, userID, query, method string, resultCount int) error
}

// RecommendationService serves recommendation requests and records
// analytics for each query.
type RecommendationService struct {
	engine   *recommend.Engine
	searches SearchLogger
	logger   *slog.Logger
}

// NewRecommendationService creates a recommendation service. The search
// logger may be nil to disable analytics.
func NewRecommendationService(engine *recommend.Engine, searches SearchLogger, logger *slog.Logger) *RecommendationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RecommendationService{
		engine:   engine,
		searches: searches,
		logger:   logger,
	}
}

// Ready reports whether the engine has finished building.
func (s *RecommendationService) Ready() bool {
	return s.engine.Ready()
}

// Recommend runs a recommendation query and logs it asynchronously.
func (s *RecommendationService) Recommend(ctx context.Context, userID, query, methodName string, limit int) ([]domain.Recommendation, error) {
	method := domain.ParseMethod(methodName)

	recs, err := s.engine.Recommend(query, method, limit)
	if err != nil {
		return nil, err
	}

	s.logQuery(userID, query, string(method), len(recs))
	return recs, nil
}

// logQuery records the search event without blocking the request.
func (s *RecommendationService) logQuery(userID, query, method string, resultCount int) {
	if s.searches == nil || query == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.searches.LogSearch(ctx, userID, query, method, resultCount); err != nil {
			s.logger.Warn("failed to log search", "query", query, "error", err)
		}
	}()
}
