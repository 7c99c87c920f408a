package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/logger"
	"github.com/bookquest/bookquest-server/internal/service"
)

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	engine := do.MustInvoke[*EngineHandle](i)
	store := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(engine.Engine, store.Store, log.Logger), nil
}

// ProvideLibraryService provides catalog browsing.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	engine := do.MustInvoke[*EngineHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(engine.Engine, log.Logger), nil
}

// ProvideUserDataService provides favorites and ratings.
func ProvideUserDataService(i do.Injector) (*service.UserDataService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserDataService(store.Store, log.Logger), nil
}
