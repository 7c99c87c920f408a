package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookquest/bookquest-server/internal/metadata"
)

// MetadataProvider is one external book-metadata source.
type MetadataProvider interface {
	Lookup(ctx context.Context, title, author string) (*metadata.BookMetadata, error)
}

// MetadataService queries providers in order and returns the first hit.
// Provider failures and misses both fall through to the next provider;
// when every provider misses, the caller gets metadata.ErrNotFound, never
// a transport error.
type MetadataService struct {
	providers []MetadataProvider
	logger    *slog.Logger
}

// NewMetadataService creates a metadata service over the given providers,
// tried in argument order.
func NewMetadataService(logger *slog.Logger, providers ...MetadataProvider) *MetadataService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MetadataService{providers: providers, logger: logger}
}

// Lookup returns the best metadata for a title across all providers.
func (s *MetadataService) Lookup(ctx context.Context, title, author string) (*metadata.BookMetadata, error) {
	for _, p := range s.providers {
		m, err := p.Lookup(ctx, title, author)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, metadata.ErrNotFound) {
			s.logger.Warn("metadata provider error", "title", title, "error", err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, metadata.ErrNotFound
}
