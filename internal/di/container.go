// Package di provides dependency injection configuration for the BookQuest server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/di/providers"
	"github.com/bookquest/bookquest-server/internal/logger"
	"github.com/bookquest/bookquest-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Recommendation engine
	do.Provide(injector, providers.ProvideEngine)

	// Metadata layer
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideMetadataService)

	// Business services
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideUserDataService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once lazy construction has
// run. The engine build itself continues in the background.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.EngineHandle](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.UserDataService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
