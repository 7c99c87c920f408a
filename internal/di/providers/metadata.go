package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/logger"
	"github.com/bookquest/bookquest-server/internal/metadata/googlebooks"
	"github.com/bookquest/bookquest-server/internal/metadata/openlibrary"
	"github.com/bookquest/bookquest-server/internal/service"
)

// ProvideGoogleBooksClient provides the Google Books metadata client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := []googlebooks.Option{googlebooks.WithTimeout(cfg.Metadata.Timeout)}
	if cfg.Metadata.GoogleBooksAPIKey != "" {
		opts = append(opts, googlebooks.WithAPIKey(cfg.Metadata.GoogleBooksAPIKey))
	}

	return googlebooks.NewClient(log.Logger, opts...), nil
}

// ProvideOpenLibraryClient provides the Open Library metadata client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return openlibrary.NewClient(log.Logger, openlibrary.WithTimeout(cfg.Metadata.Timeout)), nil
}

// ProvideMetadataService provides the metadata lookup service. Google Books
// is tried first, Open Library is the fallback.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	google := do.MustInvoke[*googlebooks.Client](i)
	openLib := do.MustInvoke[*openlibrary.Client](i)

	return service.NewMetadataService(log.Logger, google, openLib), nil
}
